package service

import (
	"regexp"
	"strings"
	"text/template"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

// configTemplate index.ts模板
// 产物同时是前端工程里可手改、可类型检查的TS模块，生成时必须保持可读
const configTemplate = `import type { BrandConfig } from '../types'

const config: BrandConfig = {
  // ===== 版本配置 =====
  versionCode: '{{.VersionCode}}', // 保留原有字段以兼容性
  iosVersionCode: '{{.IosVersionCode}}', // iOS 构建号
  androidVersionCode: '{{.AndroidVersionCode}}', // Android 构建号
  versionName: '{{.VersionName}}', // 版本名称，如 1.0.0

  // ===== 应用基础信息 =====
  app_name: '{{.AppName}}', // 应用显示名称（中文）
  app_en_name: '{{.AppEnName}}', // 应用显示名称（英文）
  app_description: '{{.AppDescription}}', // 应用描述
  dc_appId: '{{.DcAppId}}', // DCloud App ID，请前往 https://dev.dcloud.net.cn/pages/app/list 创建后补充
  packagename: '{{.Packagename}}', // Android 包名
  aliasname: '{{.Alias}}', // 品牌别名，用于文件夹命名
  iosAppId: '{{.IosAppId}}', // iOS Bundle ID
  CFBundleName: '{{.CfBundleName}}', // iOS Bundle 显示名称，建议与 app_en_name 一致
  teamId: '{{.TeamId}}'{{.TeamIdComment}}, // iOS 开发团队 ID
  splashscreen: {
    iosStyle: '{{.SplashIosStyle}}',
    androidStyle: '{{.SplashAndroidStyle}}',
  },

  // ===== 签名配置 =====
  keystore: '../appConfig/{{.Alias}}/{{.Alias}}.keystore', // Android 签名文件路径
  password: '{{.KeystorePassword}}', // keystore 密码

  // ===== URL配置 =====
  VITE_BASE_URL: '{{.BaseUrl}}', // API 基础地址
  ios_applinks_domain: '{{.IosApplinksDomain}}', // iOS App Links 域名，用于深度链接
  appLinksuffix: '{{.AppLinksuffix}}', // App Links 后缀，请在 m-app-association 项目新增一项，没有请申请项目权限

  // ===== 微信/支付宝配置 =====
  schemes: '{{.Schemes}}', // URL Scheme，用于应用间跳转
  urlschemewhitelist: 'alipays', // URL Scheme 白名单，允许跳转的 Scheme
  urltypes: '{{.Urltypes}}', // URL Types，iOS 用于识别应用

  // ===== 企业配置 =====
  VITE_CORPORATIONID: '{{.CorporationId}}'{{.CorporationIdComment}}, // 集团 ID
  VITE_MP_APP_PLUS_EXTAPPID: '{{.ExtAppId}}'{{.ExtAppIdComment}}, // 装修 ID

  // ===== 国际化配置 =====
  locale: '{{.Locale}}', // 默认语言，zh_CN(简体中文) / zh_TW(繁体中文) / en_US(英文)

  // ===== 设备配置 =====
  devices: 'iphone', // 支持的设备类型，iphone / ipad / universal

  // ===== 证书配置 =====
  certfile: '../appConfig/{{.Alias}}/certificate/prod/app.p12', // iOS 发布证书路径
  mobileprovision: '../appConfig/{{.Alias}}/certificate/prod/app.mobileprovision', // iOS 描述文件路径

  // ===== 审核账号 =====
  '审核账号': '{{.ReviewAccount}}', // App Store 审核账号
  '审核密码': '{{.ReviewPassword}}', // App Store 审核密码

  // ===== 蒲公英配置 =====
  pgyerApiKey: 'bfb4258d51ec656443252180367e20ff', // 蒲公英 API Key，用于内测分发

  // ===== 功能开关 =====
  isSupportEnterprise: {{.IsSupportEnterprise}}, // 是否支持企业包
  isTest: {{.IsTest}}, // 是否是测试环境
  isSupportHotUpdate: {{.IsSupportHotUpdate}}, // 是否支持热更新
  isSupportAppSetting: {{.IsSupportAppSetting}}, // 是否支持应用设置

  // ===== App Association 配置 =====
  iosDownloadUrl: '{{.IosDownloadUrl}}', // iOS App Store 下载链接
  themeColor: '{{.ThemeColor}}', // 主题颜色，用于浏览器主题色设置
}

export default config
`

var configTpl = template.Must(template.New("index.ts").Parse(configTemplate))

// templateData 模板渲染数据，字段全部已补完默认值
type templateData struct {
	Alias              string
	VersionCode        string
	IosVersionCode     string
	AndroidVersionCode string
	VersionName        string

	AppName        string
	AppEnName      string
	AppDescription string
	DcAppId        string
	Packagename    string
	IosAppId       string
	CfBundleName   string
	TeamId         string
	TeamIdComment  string

	SplashIosStyle     string
	SplashAndroidStyle string
	KeystorePassword   string

	BaseUrl           string
	IosApplinksDomain string
	AppLinksuffix     string

	Schemes  string
	Urltypes string

	CorporationId        string
	CorporationIdComment string
	ExtAppId             string
	ExtAppIdComment      string

	Locale         string
	ReviewAccount  string
	ReviewPassword string

	IsSupportEnterprise bool
	IsTest              bool
	IsSupportHotUpdate  bool
	IsSupportAppSetting bool

	IosDownloadUrl string
	ThemeColor     string
}

// CodecService 配置文件编解码服务
// 渲染走固定模板，解析走逐字段正则，容忍手改、换序、加注释的内容
type CodecService struct {
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewCodecService 创建配置文件编解码服务
func NewCodecService(log *logger.Log) *CodecService {
	return &CodecService{
		log: log.WithEntryName("CodecService"),
		err: errorc.NewErrorBuilder("CodecService"),
	}
}

// Render 将品牌配置渲染为index.ts内容
// 空的可选字段照常输出空串，保证产物永远是合法TS；
// teamId/集团ID/装修ID为空时额外插入"请补充"注释
func (s *CodecService) Render(cfg *model.BrandConfig) (string, error) {
	data := s.prepare(cfg)

	var builder strings.Builder
	if err := configTpl.Execute(&builder, data); err != nil {
		return "", s.err.New("渲染配置模板失败", err)
	}
	return builder.String(), nil
}

func (s *CodecService) prepare(cfg *model.BrandConfig) *templateData {
	versionCode := orDefault(cfg.VersionCode, model.DefaultVersionCode)
	packagename := strings.TrimSpace(cfg.Packagename)
	if packagename == "" {
		packagename = model.DefaultPackageName(cfg.Alias)
	}
	iosAppId := strings.TrimSpace(cfg.IosAppId)
	if iosAppId == "" {
		iosAppId = model.DefaultPackageName(cfg.Alias)
	}

	splash := cfg.Splashscreen
	if splash == nil {
		splash = &model.Splashscreen{IosStyle: "common", AndroidStyle: "common"}
	}

	return &templateData{
		Alias:              cfg.Alias,
		VersionCode:        versionCode,
		IosVersionCode:     orDefault(cfg.IosVersionCode, versionCode),
		AndroidVersionCode: orDefault(cfg.AndroidVersionCode, versionCode),
		VersionName:        orDefault(cfg.VersionName, model.DefaultVersionName),

		AppName:        cfg.AppName,
		AppEnName:      cfg.AppEnName,
		AppDescription: cfg.AppDescription,
		DcAppId:        cfg.DcAppId,
		Packagename:    packagename,
		IosAppId:       iosAppId,
		CfBundleName:   orDefault(cfg.CfBundleName, cfg.AppEnName),
		TeamId:         cfg.TeamId,
		TeamIdComment:  blankComment(cfg.TeamId, "请补充团队 ID"),

		SplashIosStyle:     orDefault(splash.IosStyle, "common"),
		SplashAndroidStyle: orDefault(splash.AndroidStyle, "common"),
		KeystorePassword:   model.KeystorePassword,

		BaseUrl:           cfg.BaseUrl,
		IosApplinksDomain: cfg.IosApplinksDomain,
		AppLinksuffix:     cfg.AppLinksuffix,

		Schemes:  cfg.Schemes,
		Urltypes: cfg.Urltypes,

		CorporationId:        cfg.CorporationId,
		CorporationIdComment: blankComment(cfg.CorporationId, "请补充集团 ID"),
		ExtAppId:             cfg.ExtAppId,
		ExtAppIdComment:      blankComment(cfg.ExtAppId, "请补充装修 ID"),

		Locale:         orDefault(cfg.Locale, model.DefaultLocale),
		ReviewAccount:  cfg.ReviewAccount,
		ReviewPassword: cfg.ReviewPassword,

		IsSupportEnterprise: cfg.IsSupportEnterprise,
		IsTest:              cfg.IsTest,
		IsSupportHotUpdate:  cfg.IsSupportHotUpdate,
		IsSupportAppSetting: cfg.IsSupportAppSetting,

		IosDownloadUrl: cfg.IosDownloadUrl,
		ThemeColor:     orDefault(cfg.ThemeColor, model.DefaultThemeColor),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func blankComment(v, hint string) string {
	if strings.TrimSpace(v) == "" {
		return ", // " + hint
	}
	return ""
}

// stringPatterns 逐字段提取规则，值为引号内的内容
// 带*的字段允许空串，其余字段空值视为未命中
var stringPatterns = []struct {
	re     *regexp.Regexp
	assign func(cfg *model.BrandConfig, v string)
}{
	{regexp.MustCompile(`versionCode:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.VersionCode = v }},
	{regexp.MustCompile(`iosVersionCode:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.IosVersionCode = v }},
	{regexp.MustCompile(`androidVersionCode:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.AndroidVersionCode = v }},
	{regexp.MustCompile(`versionName:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.VersionName = v }},
	{regexp.MustCompile(`app_name:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.AppName = v }},
	{regexp.MustCompile(`app_en_name:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.AppEnName = v }},
	{regexp.MustCompile(`app_description:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.AppDescription = v }},
	{regexp.MustCompile(`dc_appId:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.DcAppId = v }},
	{regexp.MustCompile(`packagename:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.Packagename = v }},
	{regexp.MustCompile(`aliasname:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.Alias = v }},
	{regexp.MustCompile(`iosAppId:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.IosAppId = v }},
	{regexp.MustCompile(`CFBundleName:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.CfBundleName = v }},
	{regexp.MustCompile(`teamId:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.TeamId = v }},
	{regexp.MustCompile(`VITE_BASE_URL:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.BaseUrl = v }},
	{regexp.MustCompile(`ios_applinks_domain:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.IosApplinksDomain = v }},
	{regexp.MustCompile(`appLinksuffix:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.AppLinksuffix = v }},
	{regexp.MustCompile(`schemes:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.Schemes = v }},
	{regexp.MustCompile(`urltypes:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.Urltypes = v }},
	{regexp.MustCompile(`VITE_CORPORATIONID:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.CorporationId = v }},
	{regexp.MustCompile(`VITE_MP_APP_PLUS_EXTAPPID:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.ExtAppId = v }},
	{regexp.MustCompile(`locale:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.Locale = v }},
	{regexp.MustCompile(`iosDownloadUrl:\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.IosDownloadUrl = v }},
	{regexp.MustCompile(`themeColor:\s*['"]([^'"]+)['"]`), func(c *model.BrandConfig, v string) { c.ThemeColor = v }},
	{regexp.MustCompile(`'审核账号':\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.ReviewAccount = v }},
	{regexp.MustCompile(`'审核密码':\s*['"]([^'"]*)['"]`), func(c *model.BrandConfig, v string) { c.ReviewPassword = v }},
}

var boolPatterns = []struct {
	re     *regexp.Regexp
	assign func(cfg *model.BrandConfig, v bool)
}{
	{regexp.MustCompile(`isSupportEnterprise:\s*(true|false)`), func(c *model.BrandConfig, v bool) { c.IsSupportEnterprise = v }},
	{regexp.MustCompile(`isTest:\s*(true|false)`), func(c *model.BrandConfig, v bool) { c.IsTest = v }},
	{regexp.MustCompile(`isSupportHotUpdate:\s*(true|false)`), func(c *model.BrandConfig, v bool) { c.IsSupportHotUpdate = v }},
	{regexp.MustCompile(`isSupportAppSetting:\s*(true|false)`), func(c *model.BrandConfig, v bool) { c.IsSupportAppSetting = v }},
}

var (
	splashIosPattern     = regexp.MustCompile(`iosStyle:\s*['"]([^'"]+)['"]`)
	splashAndroidPattern = regexp.MustCompile(`androidStyle:\s*['"]([^'"]+)['"]`)
)

// Parse 从index.ts内容中尽力提取品牌配置
// 未命中的字段保持零值，内容本身不会导致错误，只有上层读文件会失败
func (s *CodecService) Parse(content string) *model.BrandConfig {
	cfg := &model.BrandConfig{}

	for _, p := range stringPatterns {
		if m := p.re.FindStringSubmatch(content); m != nil {
			p.assign(cfg, m[1])
		}
	}
	for _, p := range boolPatterns {
		if m := p.re.FindStringSubmatch(content); m != nil {
			p.assign(cfg, m[1] == "true")
		}
	}

	iosStyle := splashIosPattern.FindStringSubmatch(content)
	androidStyle := splashAndroidPattern.FindStringSubmatch(content)
	if iosStyle != nil || androidStyle != nil {
		splash := &model.Splashscreen{}
		if iosStyle != nil {
			splash.IosStyle = iosStyle[1]
		}
		if androidStyle != nil {
			splash.AndroidStyle = androidStyle[1]
		}
		cfg.Splashscreen = splash
	}

	// 根据baseUrl推断地区
	if cfg.BaseUrl != "" {
		cfg.BaseUrlRegion = model.RegionFromURL(cfg.BaseUrl)
	}

	return cfg
}
