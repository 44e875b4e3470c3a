package service

import (
	"strings"
	"testing"

	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

// TestCodecService_RoundTrip 测试渲染后再解析能还原所有字段
func TestCodecService_RoundTrip(t *testing.T) {
	codec := NewCodecService(logger.GetLogger())

	cfg := &model.BrandConfig{
		Alias:               "mollytea",
		VersionCode:         "3",
		IosVersionCode:      "5",
		AndroidVersionCode:  "4",
		VersionName:         "2.1.0",
		AppName:             "莫莉茶",
		AppEnName:           "MollyTea",
		AppDescription:      "莫莉茶点单应用",
		DcAppId:             "__UNI__ABC123",
		Packagename:         "ai.restosuite.mollytea",
		IosAppId:            "ai.restosuite.mollytea",
		CfBundleName:        "MollyTea",
		TeamId:              "TEAM12345",
		BaseUrl:             "https://m.sea.restosuite.ai",
		IosApplinksDomain:   "applinks.mollytea.com",
		AppLinksuffix:       "RestosuiteMollytea",
		Schemes:             "mollytea",
		Urltypes:            "mollytea",
		CorporationId:       "corp-001",
		ExtAppId:            "__UNI__EXT001",
		Locale:              "zh_TW",
		ReviewAccount:       "review@mollytea.com",
		ReviewPassword:      "review123",
		IsSupportEnterprise: true,
		IsTest:              false,
		IsSupportHotUpdate:  true,
		IsSupportAppSetting: true,
		IosDownloadUrl:      "https://apps.apple.com/app/id123456",
		ThemeColor:          "#ff6600",
		Splashscreen:        &model.Splashscreen{IosStyle: "common", AndroidStyle: "custom"},
	}

	content, err := codec.Render(cfg)
	if err != nil {
		t.Fatalf("渲染配置失败: %v", err)
	}

	parsed := codec.Parse(content)

	if parsed.Alias != cfg.Alias {
		t.Errorf("alias 不一致: %s != %s", parsed.Alias, cfg.Alias)
	}
	if parsed.VersionCode != cfg.VersionCode {
		t.Errorf("versionCode 不一致: %s != %s", parsed.VersionCode, cfg.VersionCode)
	}
	if parsed.IosVersionCode != cfg.IosVersionCode {
		t.Errorf("iosVersionCode 不一致: %s != %s", parsed.IosVersionCode, cfg.IosVersionCode)
	}
	if parsed.AndroidVersionCode != cfg.AndroidVersionCode {
		t.Errorf("androidVersionCode 不一致: %s != %s", parsed.AndroidVersionCode, cfg.AndroidVersionCode)
	}
	if parsed.VersionName != cfg.VersionName {
		t.Errorf("versionName 不一致: %s != %s", parsed.VersionName, cfg.VersionName)
	}
	if parsed.AppName != cfg.AppName {
		t.Errorf("app_name 不一致: %s != %s", parsed.AppName, cfg.AppName)
	}
	if parsed.Packagename != cfg.Packagename {
		t.Errorf("packagename 不一致: %s != %s", parsed.Packagename, cfg.Packagename)
	}
	if parsed.TeamId != cfg.TeamId {
		t.Errorf("teamId 不一致: %s != %s", parsed.TeamId, cfg.TeamId)
	}
	if parsed.ReviewAccount != cfg.ReviewAccount {
		t.Errorf("审核账号不一致: %s != %s", parsed.ReviewAccount, cfg.ReviewAccount)
	}
	if parsed.ReviewPassword != cfg.ReviewPassword {
		t.Errorf("审核密码不一致: %s != %s", parsed.ReviewPassword, cfg.ReviewPassword)
	}
	if parsed.IsSupportEnterprise != cfg.IsSupportEnterprise || parsed.IsTest != cfg.IsTest ||
		parsed.IsSupportHotUpdate != cfg.IsSupportHotUpdate || parsed.IsSupportAppSetting != cfg.IsSupportAppSetting {
		t.Error("功能开关解析不一致")
	}
	if parsed.BaseUrlRegion != model.RegionSEA {
		t.Errorf("地区推断错误: %s", parsed.BaseUrlRegion)
	}
	if parsed.Splashscreen == nil || parsed.Splashscreen.AndroidStyle != "custom" {
		t.Error("splashscreen 解析不一致")
	}
	if parsed.Locale != "zh_TW" {
		t.Errorf("locale 不一致: %s", parsed.Locale)
	}
}

// TestCodecService_Render_BlankComments 测试空字段的"请补充"注释只出现在空的字段上
func TestCodecService_Render_BlankComments(t *testing.T) {
	codec := NewCodecService(logger.GetLogger())

	content, err := codec.Render(&model.BrandConfig{Alias: "acme"})
	if err != nil {
		t.Fatalf("渲染配置失败: %v", err)
	}
	if !strings.Contains(content, "请补充团队 ID") {
		t.Error("teamId 为空时应有请补充注释")
	}
	if !strings.Contains(content, "请补充集团 ID") {
		t.Error("集团 ID 为空时应有请补充注释")
	}
	if !strings.Contains(content, "请补充装修 ID") {
		t.Error("装修 ID 为空时应有请补充注释")
	}

	filled, err := codec.Render(&model.BrandConfig{
		Alias:         "acme",
		TeamId:        "TEAM1",
		CorporationId: "corp",
		ExtAppId:      "ext",
	})
	if err != nil {
		t.Fatalf("渲染配置失败: %v", err)
	}
	if strings.Contains(filled, "请补充") {
		t.Error("字段都有值时不应出现请补充注释")
	}
}

// TestCodecService_Render_Defaults 测试空字段的默认值补齐
func TestCodecService_Render_Defaults(t *testing.T) {
	codec := NewCodecService(logger.GetLogger())

	content, err := codec.Render(&model.BrandConfig{Alias: "acme"})
	if err != nil {
		t.Fatalf("渲染配置失败: %v", err)
	}

	if !strings.Contains(content, "packagename: 'ai.restosuite.acme'") {
		t.Error("packagename 应默认为 ai.restosuite.acme")
	}
	if !strings.Contains(content, "iosAppId: 'ai.restosuite.acme'") {
		t.Error("iosAppId 应默认为 ai.restosuite.acme")
	}
	if !strings.Contains(content, "versionName: '1.0.0'") {
		t.Error("versionName 应默认为 1.0.0")
	}
	if !strings.Contains(content, "locale: 'zh_CN'") {
		t.Error("locale 应默认为 zh_CN")
	}
	if !strings.Contains(content, "themeColor: '#52a1ff'") {
		t.Error("themeColor 应默认为 #52a1ff")
	}
	if !strings.Contains(content, "password: '123456'") {
		t.Error("keystore 密码应为固定值")
	}
	if !strings.Contains(content, "keystore: '../appConfig/acme/acme.keystore'") {
		t.Error("keystore 路径应包含品牌别名")
	}
}

// TestCodecService_Parse_RegionInference 测试按baseUrl推断地区
func TestCodecService_Parse_RegionInference(t *testing.T) {
	codec := NewCodecService(logger.GetLogger())

	cases := []struct {
		url    string
		region model.Region
	}{
		{"https://m.us.restosuite.ai", model.RegionUS},
		{"https://m.sea.restosuite.ai", model.RegionSEA},
		{"https://m.eu.restosuite.ai", model.RegionEU},
		{"https://m.test.restosuite.cn", model.RegionTest},
		{"https://unknown.example.com", ""},
	}

	for _, c := range cases {
		cfg := codec.Parse("VITE_BASE_URL: '" + c.url + "',")
		if cfg.BaseUrlRegion != c.region {
			t.Errorf("url %s 推断地区错误: got %q want %q", c.url, cfg.BaseUrlRegion, c.region)
		}
	}
}

// TestCodecService_Parse_HandEdited 测试手改过的配置（换序、加注释）仍能解析
func TestCodecService_Parse_HandEdited(t *testing.T) {
	codec := NewCodecService(logger.GetLogger())

	content := `
// 手工维护的配置
const config = {
  isTest: true, // 测试品牌
  app_name: "奶茶小站", // 双引号也行
  aliasname: 'naicha',
  versionName: '0.9.1',
  // packagename 暂时没定
}
export default config
`
	cfg := codec.Parse(content)
	if cfg.Alias != "naicha" {
		t.Errorf("aliasname 解析错误: %s", cfg.Alias)
	}
	if cfg.AppName != "奶茶小站" {
		t.Errorf("app_name 解析错误: %s", cfg.AppName)
	}
	if !cfg.IsTest {
		t.Error("isTest 应为 true")
	}
	if cfg.Packagename != "" {
		t.Errorf("未出现的字段应保持零值: %s", cfg.Packagename)
	}
	if cfg.VersionName != "0.9.1" {
		t.Errorf("versionName 解析错误: %s", cfg.VersionName)
	}
}
