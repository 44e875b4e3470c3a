package dto

// CloudBuildRequest 云打包请求
type CloudBuildRequest struct {
	Platform           string `json:"platform" validate:"omitempty,oneof=android ios all" comment:"构建平台"`
	Operation          string `json:"operation" comment:"npm脚本名"`
	Branch             string `json:"branch" comment:"git分支"`
	Environment        string `json:"environment" validate:"omitempty,oneof=test production" comment:"构建环境"`
	VersionName        string `json:"versionName" comment:"版本名"`
	AndroidVersionCode string `json:"androidVersionCode" comment:"Android版本号"`
	IosVersionCode     string `json:"iosVersionCode" comment:"iOS版本号"`
}
