package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brandkit/base"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/start"
	"brandkit/system/brand"
)

// newTestConvert 在临时目录上搭转换服务
func newTestConvert(t *testing.T) (service *ConvertService, appConfigDir, downloadsDir string) {
	t.Helper()
	appConfigDir = t.TempDir()
	downloadsDir = t.TempDir()
	base.Configures = &start.Configures{Config: start.Config{Dirs: start.DirConfig{AppConfig: appConfigDir}}}
	module := brand.NewModule()
	service = NewConvertService(module.Client, appConfigDir, downloadsDir, t.TempDir(), "", logger.GetLogger())
	return service, appConfigDir, downloadsDir
}

// writeBrand 直接落盘一个品牌配置
func writeBrand(t *testing.T, appConfigDir, folderName, content string) {
	t.Helper()
	brandDir := filepath.Join(appConfigDir, folderName)
	if err := os.MkdirAll(brandDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(brandDir, "index.ts"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestOutputName 测试产物文件名从上传文件名推导
func TestOutputName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"release-v2.aab", "release-v2.apk"},
		{"/tmp/upload/app.aab", "app.apk"},
		{"noext", "noext.apk"},
		{"", "app.apk"},
	}
	for _, c := range cases {
		if got := outputName(c.in); got != c.want {
			t.Errorf("outputName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestConvertService_VerifyPackage 测试AAB包名与品牌配置的归属校验
func TestConvertService_VerifyPackage(t *testing.T) {
	service, dir, _ := newTestConvert(t)
	writeBrand(t, dir, "acme", "aliasname: 'acme',\npackagename: 'ai.restosuite.acme',\n")
	writeBrand(t, dir, "other", "aliasname: 'other',\npackagename: 'com.other.app',\n")

	if err := service.verifyPackage("acme", "ai.restosuite.acme", "ai.restosuite.acme"); err != nil {
		t.Errorf("包名一致应放行: %v", err)
	}

	// 清单读不出包名时跳过校验
	if err := service.verifyPackage("acme", "ai.restosuite.acme", ""); err != nil {
		t.Errorf("包名未知时应放行: %v", err)
	}

	err := service.verifyPackage("acme", "ai.restosuite.acme", "com.other.app")
	if err == nil {
		t.Fatal("包名不一致应报错")
	}
	if !strings.Contains(err.Error(), "包名不匹配") {
		t.Errorf("错误信息应包含不匹配详情: %v", err)
	}
	if !strings.Contains(err.Error(), "属于品牌: other") {
		t.Errorf("错误信息应提示包名归属的品牌: %v", err)
	}
}

// TestConvertService_Convert_RejectsBeforeStaging 测试前置校验失败时不产生任何产物
func TestConvertService_Convert_RejectsBeforeStaging(t *testing.T) {
	service, dir, downloads := newTestConvert(t)
	writeBrand(t, dir, "bare", "aliasname: 'bare',\npackagename: '',\n")
	writeBrand(t, dir, "nokey", "aliasname: 'nokey',\npackagename: 'ai.restosuite.nokey',\n")

	// 缺包名
	if _, err := service.Convert("bare", "app.aab", []byte("fake")); err == nil {
		t.Fatal("缺少包名应拒绝转换")
	} else if !strings.Contains(err.Error(), "packagename") {
		t.Errorf("错误信息不对: %v", err)
	}

	// 缺keystore
	if _, err := service.Convert("nokey", "app.aab", []byte("fake")); err == nil {
		t.Fatal("缺少keystore应拒绝转换")
	} else if !strings.Contains(err.Error(), "keystore") {
		t.Errorf("错误信息不对: %v", err)
	}

	entries, readErr := os.ReadDir(downloads)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Error("转换被拒后downloads目录不应有产物")
	}
}
