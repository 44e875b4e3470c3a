package app

import (
	"brandkit/base"
	"brandkit/pkg/core/logger"
	brandclient "brandkit/system/brand/api/client"
	"brandkit/system/build/internal/model"
	"brandkit/system/build/internal/service"
)

// App 云打包组件应用层
type App struct {
	Build     *service.BuildService
	Git       *service.GitService
	Generator *service.GeneratorService
	log       *logger.Log
}

// NewApp 创建云打包组件应用层实例
func NewApp(brand *brandclient.BrandClient) *App {
	log := logger.GetLogger().WithEntryName("BuildApp")
	projectDir := base.Configures.Config.Dirs.Project

	registry := service.NewJobRegistry()
	git := service.NewGitService(projectDir, log)
	build := service.NewBuildService(registry, git, brand, projectDir, log)
	generator := service.NewGeneratorService(projectDir, brand, log)

	return &App{
		Build:     build,
		Git:       git,
		Generator: generator,
		log:       log,
	}
}

// Branches git分支列表
func (a *App) Branches() (*model.BranchInfo, error) {
	return a.Git.Branches()
}

// Shutdown 终止所有在跑的构建
func (a *App) Shutdown() {
	a.Build.Shutdown()
}
