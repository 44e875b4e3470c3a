package app

import (
	"fmt"
	"os"
	"path/filepath"

	"brandkit/base"
	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/service"
)

// App 品牌配置集组件应用层
type App struct {
	Codec    *service.CodecService
	Store    *service.StoreService
	Keystore *service.KeystoreService
	Assets   *service.AssetService
	log      *logger.Log
	err      *errorc.ErrorBuilder
}

// NewApp 创建品牌配置集组件应用层实例
func NewApp() *App {
	log := logger.GetLogger().WithEntryName("BrandApp")

	rootDir := base.Configures.Config.Dirs.AppConfig
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		log.WithErr(err).Panic("创建appConfig目录失败")
	}

	codec := service.NewCodecService(log)
	keystore := service.NewKeystoreService(log)
	store := service.NewStoreService(rootDir, codec, keystore, log)
	assets := service.NewAssetService(store, log)

	return &App{
		Codec:    codec,
		Store:    store,
		Keystore: keystore,
		Assets:   assets,
		log:      log,
		err:      errorc.NewErrorBuilder("BrandApp"),
	}
}

// KeystoreAlias 优先取配置里的aliasname作为keystore别名
func (a *App) KeystoreAlias(folderName string) string {
	content, err := os.ReadFile(filepath.Join(a.Store.BrandDir(folderName), service.ConfigFileName))
	if err != nil {
		return folderName
	}
	cfg := a.Codec.Parse(string(content))
	if cfg.Alias != "" {
		return cfg.Alias
	}
	return folderName
}

// GenerateKeystore 为已有品牌补一个keystore
func (a *App) GenerateKeystore(alias string) error {
	folderName, err := a.Store.ResolveAlias(alias)
	if err != nil {
		return err
	}

	a.Keystore.Generate(a.Store.BrandDir(folderName), a.KeystoreAlias(folderName))
	return nil
}

// KeystoreLookup keystore查询结果
// keystore缺失时Info为空，Debug带上排查用的路径信息
type KeystoreLookup struct {
	Success bool                   `json:"success"`
	Info    *service.KeystoreInfo  `json:"info,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Debug   map[string]interface{} `json:"debug,omitempty"`
}

// KeystoreInfo 查询品牌keystore证书信息
func (a *App) KeystoreInfo(alias string) (*KeystoreLookup, error) {
	folderName, err := a.Store.ResolveAlias(alias)
	if err != nil {
		return nil, err
	}

	brandDir := a.Store.BrandDir(folderName)
	configAlias := a.KeystoreAlias(folderName)

	keystorePath, found := a.Keystore.Find(brandDir, configAlias)
	if !found {
		cwd, _ := os.Getwd()
		errMsg := fmt.Sprintf("keystore 文件不存在，请先创建配置或生成 keystore 文件\n在目录 %s 中未找到 .keystore 文件", brandDir)
		return &KeystoreLookup{
			Success: false,
			Error:   errMsg,
			Debug: map[string]interface{}{
				"cwd":          cwd,
				"appConfigDir": a.Store.RootDir(),
				"brandDir":     brandDir,
				"configAlias":  configAlias,
			},
		}, nil
	}

	info, err := a.Keystore.Inspect(keystorePath)
	if err != nil {
		return nil, err
	}
	return &KeystoreLookup{Success: true, Info: info}, nil
}
