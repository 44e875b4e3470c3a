package dto

// SplashscreenDTO 启动屏配置
type SplashscreenDTO struct {
	IosStyle     string `json:"iosStyle" comment:"iOS启动屏样式"`
	AndroidStyle string `json:"androidStyle" comment:"Android启动屏样式"`
}

// SaveBrandRequest 创建/更新品牌请求，更新为全量覆盖
type SaveBrandRequest struct {
	Alias               string           `json:"alias" comment:"品牌别名"`
	AppName             string           `json:"appName" comment:"应用名称"`
	AppEnName           string           `json:"appEnName" comment:"应用英文名称"`
	AppDescription      string           `json:"appDescription" comment:"应用描述"`
	DcAppId             string           `json:"dcAppId" comment:"DCloud App ID"`
	Packagename         string           `json:"packagename" comment:"Android包名"`
	IosAppId            string           `json:"iosAppId" comment:"iOS Bundle ID"`
	CfBundleName        string           `json:"cfBundleName" comment:"iOS Bundle显示名称"`
	BaseUrlRegion       string           `json:"baseUrlRegion" validate:"omitempty,oneof=us sea eu test" comment:"API地区"`
	IosApplinksDomain   string           `json:"iosApplinksDomain" comment:"iOS App Links域名"`
	VersionName         string           `json:"versionName" comment:"版本名称"`
	VersionCode         string           `json:"versionCode" comment:"构建号"`
	IosVersionCode      string           `json:"iosVersionCode" comment:"iOS构建号"`
	AndroidVersionCode  string           `json:"androidVersionCode" comment:"Android构建号"`
	Locale              string           `json:"locale" validate:"omitempty,oneof=zh_CN zh_TW en_US" comment:"默认语言"`
	TeamId              string           `json:"teamId" comment:"iOS开发团队ID"`
	CorporationId       string           `json:"corporationId" comment:"集团ID"`
	ExtAppId            string           `json:"extAppId" comment:"装修ID"`
	ReviewAccount       string           `json:"reviewAccount" comment:"审核账号"`
	ReviewPassword      string           `json:"reviewPassword" comment:"审核密码"`
	IosDownloadUrl      string           `json:"iosDownloadUrl" comment:"iOS下载链接"`
	ThemeColor          string           `json:"themeColor" comment:"主题颜色"`
	IsSupportEnterprise bool             `json:"isSupportEnterprise" comment:"是否支持企业包"`
	IsTest              bool             `json:"isTest" comment:"是否测试环境"`
	IsSupportHotUpdate  bool             `json:"isSupportHotUpdate" comment:"是否支持热更新"`
	IsSupportAppSetting bool             `json:"isSupportAppSetting" comment:"是否支持应用设置"`
	Splashscreen        *SplashscreenDTO `json:"splashscreen" comment:"启动屏配置"`
}

// ImportBrandRequest 导入品牌请求
type ImportBrandRequest struct {
	Alias   string `json:"alias" validate:"required" comment:"品牌别名"`
	Content string `json:"content" validate:"required" comment:"配置文件内容"`
}

// GenerateKeystoreRequest 生成keystore请求
type GenerateKeystoreRequest struct {
	Alias string `json:"alias" validate:"required" comment:"品牌别名"`
}

// UpdateVersionRequest 版本号定点更新请求
type UpdateVersionRequest struct {
	VersionName        string `json:"versionName" comment:"版本名称"`
	AndroidVersionCode string `json:"androidVersionCode" comment:"Android构建号"`
	IosVersionCode     string `json:"iosVersionCode" comment:"iOS构建号"`
	Platform           string `json:"platform" comment:"平台"`
}

// BrandInfoDTO 跨组件用的品牌摘要
type BrandInfoDTO struct {
	Alias       string `json:"alias"`
	FolderName  string `json:"folderName"`
	AppName     string `json:"appName"`
	Packagename string `json:"packagename"`
	DcAppId     string `json:"dcAppId"`
	ExtAppId    string `json:"extAppId"`
	IsTest      bool   `json:"isTest"`
}
