package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

const (
	// KeystoreSuffix keystore文件后缀
	KeystoreSuffix = ".keystore"
	// keystoreDname 生成keystore用的固定DN
	keystoreDname = "CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN"
	// keytoolTimeout keytool命令超时时间
	keytoolTimeout = 30 * time.Second
)

// keystorePlaceholder keytool不可用时写入的占位说明
const keystorePlaceholder = `# Keystore 文件占位符

请使用以下命令生成 keystore 文件：

keytool -genkeypair -v -storetype PKCS12 \
  -keystore %[1]s.keystore \
  -alias %[1]s \
  -keyalg RSA \
  -keysize 2048 \
  -validity 10000 \
  -storepass 123456 \
  -keypass 123456 \
  -dname "CN=Restosuite, OU=Mobile, O=Restosuite, L=Beijing, ST=Beijing, C=CN"

或者使用 Android Studio 的 Generate Signed Bundle/APK 功能生成。
`

// KeystoreInfo keytool -list -v 输出提取出的证书信息
type KeystoreInfo struct {
	Raw        string `json:"raw"`
	Sha1       string `json:"sha1"`
	Sha256     string `json:"sha256"`
	Md5        string `json:"md5"`
	Alias      string `json:"alias"`
	ValidFrom  string `json:"validFrom"`
	ValidUntil string `json:"validUntil"`
	Owner      string `json:"owner"`
	Issuer     string `json:"issuer"`
}

// KeystoreService Android签名证书服务，包一层keytool
type KeystoreService struct {
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewKeystoreService 创建签名证书服务
func NewKeystoreService(log *logger.Log) *KeystoreService {
	return &KeystoreService{
		log: log.WithEntryName("KeystoreService"),
		err: errorc.NewErrorBuilder("KeystoreService"),
	}
}

// runKeytool 执行keytool命令
func (s *KeystoreService) runKeytool(command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), keytoolTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()
	outputStr := strings.TrimSpace(string(output))

	s.log.WithFields(map[string]interface{}{
		"command": command,
		"output":  outputStr,
	}).Debug("执行 keytool 命令")

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return outputStr, s.err.New("keytool 命令执行超时", err)
		}
		return outputStr, s.err.New(fmt.Sprintf("keytool 命令执行失败: %s", outputStr), err)
	}
	return outputStr, nil
}

// Generate 生成keystore，已存在则跳过
// keytool不可用时降级写占位文件，不把失败抛给调用方，建品牌不因此中断
func (s *KeystoreService) Generate(brandDir, alias string) {
	keystorePath := filepath.Join(brandDir, alias+KeystoreSuffix)

	if _, err := os.Stat(keystorePath); err == nil {
		s.log.WithBrand(alias).Info("keystore 文件已存在，跳过生成")
		return
	}

	command := fmt.Sprintf(
		`keytool -genkeypair -v -storetype PKCS12 -keystore "%s" -alias %s -keyalg RSA -keysize 2048 -validity 10000 -storepass %s -keypass %s -dname "%s"`,
		keystorePath, alias, model.KeystorePassword, model.KeystorePassword, keystoreDname)

	if _, err := s.runKeytool(command); err != nil {
		s.log.WithBrand(alias).WithErr(err).Warn("无法使用 keytool 生成 keystore，创建占位文件")
		placeholder := fmt.Sprintf(keystorePlaceholder, alias)
		if writeErr := os.WriteFile(keystorePath+".txt", []byte(placeholder), 0644); writeErr != nil {
			s.log.WithBrand(alias).WithErr(writeErr).Error("写入 keystore 占位文件失败")
		}
		return
	}

	s.log.WithBrand(alias).Info("keystore 文件生成成功")
}

// Find 定位品牌目录下的keystore
// 优先按别名命名，找不到再扫任意.keystore文件（手工改过名的情况）
func (s *KeystoreService) Find(brandDir, alias string) (string, bool) {
	aliasPath := filepath.Join(brandDir, alias+KeystoreSuffix)
	if _, err := os.Stat(aliasPath); err == nil {
		return aliasPath, true
	}

	entries, err := os.ReadDir(brandDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), KeystoreSuffix) {
			return filepath.Join(brandDir, entry.Name()), true
		}
	}
	return "", false
}

// Inspect 读取keystore证书信息
// keystore缺失返回NotFound，keytool执行失败返回Unavailable，两者调用方提示不同
func (s *KeystoreService) Inspect(keystorePath string) (*KeystoreInfo, error) {
	command := fmt.Sprintf(`keytool -list -v -keystore "%s" -storepass %s`, keystorePath, model.KeystorePassword)
	output, err := s.runKeytool(command)
	if err != nil {
		return nil, s.err.New("无法读取 keystore 信息，请确保已安装 Java 和 keytool", err).Unavailable()
	}

	info := &KeystoreInfo{
		Raw:        output,
		Sha1:       extractHash(output, "SHA1"),
		Sha256:     extractHash(output, "SHA256"),
		Md5:        extractHash(output, "MD5"),
		Alias:      firstValue(output, "别名", "Alias name"),
		ValidFrom:  firstValue(output, "Valid from", "创建日期"),
		ValidUntil: firstValue(output, "Valid until", "有效期限"),
		Owner:      firstValue(output, "所有者", "Owner"),
		Issuer:     firstValue(output, "颁发者", "Issuer"),
	}
	return info, nil
}

// extractHash 从keytool输出提取指纹，兼容中英文标签
func extractHash(output, algorithm string) string {
	re := regexp.MustCompile(`(?i)` + algorithm + `(?:\s+指纹|\s+Fingerprint)?[：:]\s*([A-F0-9:]+)`)
	if m := re.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractValue 从keytool输出提取标签值
func extractValue(output, key string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(key) + `[：:]\s*(.+?)(?:\n|$)`)
	if m := re.FindStringSubmatch(output); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func firstValue(output string, keys ...string) string {
	for _, key := range keys {
		if v := extractValue(output, key); v != "" {
			return v
		}
	}
	return ""
}
