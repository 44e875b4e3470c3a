package client

import (
	"brandkit/system/brand/api/dto"
	internalapp "brandkit/system/brand/internal/app"
)

// BrandClient 品牌配置集组件对外客户端（进程内调用）
// 供云打包、产物加工组件查询品牌信息
type BrandClient struct {
	app *internalapp.App
}

// NewBrandClient 创建品牌客户端实例
func NewBrandClient(app *internalapp.App) *BrandClient {
	return &BrandClient{app: app}
}

// ResolveAlias 解析别名得到品牌目录名
func (c *BrandClient) ResolveAlias(alias string) (string, error) {
	return c.app.Store.ResolveAlias(alias)
}

// BrandDir 品牌目录绝对路径
func (c *BrandClient) BrandDir(folderName string) string {
	return c.app.Store.BrandDir(folderName)
}

// Info 读取并解析品牌配置，返回跨组件用的摘要信息
func (c *BrandClient) Info(alias string) (*dto.BrandInfoDTO, error) {
	cfg, err := c.app.Store.ReadParsed(alias)
	if err != nil {
		return nil, err
	}
	return &dto.BrandInfoDTO{
		Alias:       cfg.Alias,
		FolderName:  cfg.FolderName,
		AppName:     cfg.AppName,
		Packagename: cfg.Packagename,
		DcAppId:     cfg.DcAppId,
		ExtAppId:    cfg.ExtAppId,
		IsTest:      cfg.IsTest,
	}, nil
}

// UpdateVersions 定向改写品牌配置里的版本字段
func (c *BrandClient) UpdateVersions(alias, versionName, androidVersionCode, iosVersionCode string) error {
	return c.app.Store.UpdateVersions(alias, versionName, androidVersionCode, iosVersionCode)
}

// Keystore 定位品牌keystore文件与签名别名
func (c *BrandClient) Keystore(alias string) (keystorePath, keystoreAlias string, found bool, err error) {
	folderName, err := c.app.Store.ResolveAlias(alias)
	if err != nil {
		return "", "", false, err
	}
	keystoreAlias = c.app.KeystoreAlias(folderName)
	keystorePath, found = c.app.Keystore.Find(c.app.Store.BrandDir(folderName), keystoreAlias)
	return keystorePath, keystoreAlias, found, nil
}

// BrandsByPackage 按Android包名反查品牌别名，用于包名不匹配时的提示
func (c *BrandClient) BrandsByPackage(packageName string) ([]string, error) {
	if packageName == "" {
		return nil, nil
	}
	summaries, err := c.app.Store.List()
	if err != nil {
		return nil, err
	}
	var aliases []string
	for _, s := range summaries {
		if s.Packagename == packageName {
			aliases = append(aliases, s.Alias)
		}
	}
	return aliases, nil
}
