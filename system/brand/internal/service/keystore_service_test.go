package service

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"brandkit/pkg/core/logger"
)

const keytoolOutputZh = `密钥库类型: PKCS12
密钥库提供方: SUN

您的密钥库包含 1 个条目

别名: mollytea
创建日期: 2024年3月1日
条目类型: PrivateKeyEntry
所有者: CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN
颁发者: CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN
有效期限: 2051年7月17日
证书指纹:
	 SHA1: AA:BB:CC:DD:EE:FF:00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD
	 SHA256: 11:22:33:44:55:66:77:88:99:00:AA:BB:CC:DD:EE:FF:11:22:33:44:55:66:77:88:99:00:AA:BB:CC:DD:EE:FF
`

const keytoolOutputEn = `Keystore type: PKCS12
Keystore provider: SUN

Your keystore contains 1 entry

Alias name: acme
Creation date: Mar 1, 2024
Entry type: PrivateKeyEntry
Owner: CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN
Issuer: CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN
Valid from: Fri Mar 01 10:00:00 CST 2024
Valid until: Mon Jul 17 10:00:00 CST 2051
Certificate fingerprints:
	 MD5 Fingerprint: 99:88:77:66:55:44:33:22:11:00:AA:BB:CC:DD:EE:FF
	 SHA1 Fingerprint: AA:BB:CC:DD:EE:FF:00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD
`

// TestExtractHash 测试中英文keytool输出的指纹提取
func TestExtractHash(t *testing.T) {
	if got := extractHash(keytoolOutputZh, "SHA1"); got != "AA:BB:CC:DD:EE:FF:00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD" {
		t.Errorf("中文输出 SHA1 提取错误: %s", got)
	}
	if got := extractHash(keytoolOutputZh, "SHA256"); got == "" {
		t.Error("中文输出应能提取 SHA256")
	}
	if got := extractHash(keytoolOutputEn, "SHA1"); got != "AA:BB:CC:DD:EE:FF:00:11:22:33:44:55:66:77:88:99:AA:BB:CC:DD" {
		t.Errorf("英文输出 SHA1 提取错误: %s", got)
	}
	if got := extractHash(keytoolOutputEn, "MD5"); got != "99:88:77:66:55:44:33:22:11:00:AA:BB:CC:DD:EE:FF" {
		t.Errorf("英文输出 MD5 提取错误: %s", got)
	}
	if got := extractHash(keytoolOutputZh, "MD5"); got != "" {
		t.Errorf("没有的指纹应返回空串: %s", got)
	}
}

// TestFirstValue 测试中英文标签的取值
func TestFirstValue(t *testing.T) {
	if got := firstValue(keytoolOutputZh, "别名", "Alias name"); got != "mollytea" {
		t.Errorf("中文别名提取错误: %s", got)
	}
	if got := firstValue(keytoolOutputEn, "别名", "Alias name"); got != "acme" {
		t.Errorf("英文别名提取错误: %s", got)
	}
	if got := firstValue(keytoolOutputZh, "所有者", "Owner"); got == "" {
		t.Error("所有者提取不应为空")
	}
	if got := firstValue(keytoolOutputEn, "Valid until", "有效期限"); got == "" {
		t.Error("有效期提取不应为空")
	}
}

// TestKeystoreService_Find 测试keystore定位：先按别名，再扫目录
func TestKeystoreService_Find(t *testing.T) {
	service := NewKeystoreService(logger.GetLogger())
	dir := t.TempDir()

	if _, found := service.Find(dir, "acme"); found {
		t.Error("空目录不应找到 keystore")
	}

	// 手工改过名的keystore也要能找到
	renamed := filepath.Join(dir, "legacy.keystore")
	if err := os.WriteFile(renamed, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
	path, found := service.Find(dir, "acme")
	if !found || path != renamed {
		t.Errorf("应扫到改名的 keystore: %s", path)
	}

	// 按别名命名的优先
	aliasPath := filepath.Join(dir, "acme.keystore")
	if err := os.WriteFile(aliasPath, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
	path, found = service.Find(dir, "acme")
	if !found || path != aliasPath {
		t.Errorf("按别名命名的 keystore 应优先: %s", path)
	}
}

// TestKeystoreService_Generate_Placeholder 测试keytool不可用时写占位文件
func TestKeystoreService_Generate_Placeholder(t *testing.T) {
	if _, err := exec.LookPath("keytool"); err == nil {
		t.Skip("本机装了 keytool，跳过占位文件场景")
	}

	service := NewKeystoreService(logger.GetLogger())
	dir := t.TempDir()

	service.Generate(dir, "acme")

	if _, err := os.Stat(filepath.Join(dir, "acme.keystore.txt")); err != nil {
		t.Error("keytool 不可用时应写占位说明文件")
	}
}
