package app

import (
	"brandkit/system/brand"
	"brandkit/system/build"
	"brandkit/system/packaging"
)

// App 应用组合根，聚合各业务组件模块
type App struct {
	BrandModule     *brand.Module
	BuildModule     *build.Module
	PackagingModule *packaging.Module
}

// NewApp 创建应用组合根
func NewApp() *App {
	brandModule := brand.NewModule()
	buildModule := build.NewModule(brandModule)
	packagingModule := packaging.NewModule(brandModule)

	return &App{
		BrandModule:     brandModule,
		BuildModule:     buildModule,
		PackagingModule: packagingModule,
	}
}
