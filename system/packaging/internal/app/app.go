package app

import (
	"brandkit/base"
	"brandkit/pkg/core/logger"
	brandclient "brandkit/system/brand/api/client"
	"brandkit/system/packaging/internal/service"
)

// App 产物加工组件应用层
type App struct {
	Convert   *service.ConvertService
	Downloads *service.DownloadService
	Pgyer     *service.PgyerService
	Push      *service.PushService
	log       *logger.Log
}

// NewApp 创建产物加工组件应用层实例
func NewApp(brand *brandclient.BrandClient) *App {
	log := logger.GetLogger().WithEntryName("PackagingApp")
	cfg := base.Configures.Config

	convert := service.NewConvertService(brand, cfg.Dirs.AppConfig, cfg.Dirs.Downloads, cfg.Dirs.Tmp, cfg.Bundletool.Jar, log)
	downloads := service.NewDownloadService(cfg.Dirs.Downloads, log)
	pgyer := service.NewPgyerService(cfg.Pgyer.ApiKey, log)
	push := service.NewPushService(cfg.Push.Gateway, brand, log)

	return &App{
		Convert:   convert,
		Downloads: downloads,
		Pgyer:     pgyer,
		Push:      push,
		log:       log,
	}
}
