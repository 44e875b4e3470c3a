package model

import (
	"fmt"
	"strings"
)

// Region API服务地区
type Region string

const (
	RegionUS   Region = "us"
	RegionSEA  Region = "sea"
	RegionEU   Region = "eu"
	RegionTest Region = "test"
)

// regionURLMap 地区到API基础地址的映射
var regionURLMap = map[Region]string{
	RegionUS:   "https://m.us.restosuite.ai",
	RegionSEA:  "https://m.sea.restosuite.ai",
	RegionEU:   "https://m.eu.restosuite.ai",
	RegionTest: "https://m.test.restosuite.cn",
}

// BaseURL 返回地区对应的API基础地址，未知地区回落到test
func (r Region) BaseURL() string {
	if url, ok := regionURLMap[r]; ok {
		return url
	}
	return regionURLMap[RegionTest]
}

// RegionFromURL 根据基础地址推断地区，无法识别时返回空串
func RegionFromURL(baseUrl string) Region {
	switch {
	case strings.Contains(baseUrl, "m.us.restosuite.ai"):
		return RegionUS
	case strings.Contains(baseUrl, "m.sea.restosuite.ai"):
		return RegionSEA
	case strings.Contains(baseUrl, "m.eu.restosuite.ai"):
		return RegionEU
	case strings.Contains(baseUrl, "m.test.restosuite.cn"):
		return RegionTest
	}
	return ""
}

const (
	// DefaultLocale 默认语言
	DefaultLocale = "zh_CN"
	// DefaultThemeColor 默认主题色
	DefaultThemeColor = "#52a1ff"
	// DefaultVersionName 默认版本名称
	DefaultVersionName = "1.0.0"
	// DefaultVersionCode 默认构建号
	DefaultVersionCode = "1"
	// KeystorePassword keystore固定密码，模板与keytool共用
	KeystorePassword = "123456"
	// PackageNamePrefix 默认包名前缀
	PackageNamePrefix = "ai.restosuite."
)

// Splashscreen 启动屏配置
type Splashscreen struct {
	IosStyle     string `json:"iosStyle"`
	AndroidStyle string `json:"androidStyle"`
}

// BrandConfig 品牌配置，对应品牌目录下index.ts里的字段
type BrandConfig struct {
	Alias      string `json:"alias"`
	FolderName string `json:"folderName,omitempty"`

	// 版本
	VersionCode        string `json:"versionCode,omitempty"`
	IosVersionCode     string `json:"iosVersionCode,omitempty"`
	AndroidVersionCode string `json:"androidVersionCode,omitempty"`
	VersionName        string `json:"versionName,omitempty"`

	// 应用基础信息
	AppName        string `json:"appName,omitempty"`
	AppEnName      string `json:"appEnName,omitempty"`
	AppDescription string `json:"appDescription,omitempty"`
	DcAppId        string `json:"dcAppId,omitempty"`
	Packagename    string `json:"packagename,omitempty"`
	IosAppId       string `json:"iosAppId,omitempty"`
	CfBundleName   string `json:"cfBundleName,omitempty"`
	TeamId         string `json:"teamId,omitempty"`

	// URL
	BaseUrl           string `json:"baseUrl,omitempty"`
	BaseUrlRegion     Region `json:"baseUrlRegion,omitempty"`
	IosApplinksDomain string `json:"iosApplinksDomain,omitempty"`
	AppLinksuffix     string `json:"appLinksuffix,omitempty"`

	// 微信/支付宝
	Schemes  string `json:"schemes,omitempty"`
	Urltypes string `json:"urltypes,omitempty"`

	// 企业
	CorporationId string `json:"corporationId,omitempty"`
	ExtAppId      string `json:"extAppId,omitempty"`

	Locale string `json:"locale,omitempty"`

	// 审核账号
	ReviewAccount  string `json:"reviewAccount,omitempty"`
	ReviewPassword string `json:"reviewPassword,omitempty"`

	// 功能开关
	IsSupportEnterprise bool `json:"isSupportEnterprise"`
	IsTest              bool `json:"isTest"`
	IsSupportHotUpdate  bool `json:"isSupportHotUpdate"`
	IsSupportAppSetting bool `json:"isSupportAppSetting"`

	IosDownloadUrl string        `json:"iosDownloadUrl,omitempty"`
	ThemeColor     string        `json:"themeColor,omitempty"`
	Splashscreen   *Splashscreen `json:"splashscreen,omitempty"`
}

// DefaultPackageName 别名推导出的默认包名
func DefaultPackageName(alias string) string {
	return PackageNamePrefix + alias
}

// AndroidStoreURL 根据包名推导Google Play链接
func AndroidStoreURL(packagename string) string {
	if packagename == "" {
		return ""
	}
	return fmt.Sprintf("https://play.google.com/store/apps/details?id=%s", packagename)
}

// BrandSummary 品牌列表条目
type BrandSummary struct {
	Alias             string `json:"alias"`
	FolderName        string `json:"folderName"`
	Path              string `json:"path"`
	AppDescription    string `json:"appDescription"`
	AppName           string `json:"appName"`
	AppEnName         string `json:"appEnName"`
	BaseUrlRegion     Region `json:"baseUrlRegion"`
	DcAppId           string `json:"dcAppId"`
	LogoExists        bool   `json:"logoExists"`
	Packagename       string `json:"packagename"`
	IosAppId          string `json:"iosAppId"`
	AppLinksuffix     string `json:"appLinksuffix"`
	Schemes           string `json:"schemes"`
	Urltypes          string `json:"urltypes"`
	TeamId            string `json:"teamId"`
	CorporationId     string `json:"corporationId"`
	ExtAppId          string `json:"extAppId"`
	IosApplinksDomain string `json:"iosApplinksDomain"`
	AndroidStoreUrl   string `json:"androidStoreUrl"`
	CreatedAt         int64  `json:"createdAt"`
}
