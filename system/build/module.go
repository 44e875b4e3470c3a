package build

import (
	"brandkit/system/brand"
	internalapp "brandkit/system/build/internal/app"
)

// Module 云打包组件模块门面
type Module struct {
	internalApp *internalapp.App
}

// NewModule 创建云打包模块，依赖品牌组件查询品牌信息
func NewModule(brandModule *brand.Module) *Module {
	app := internalapp.NewApp(brandModule.Client)

	return &Module{
		internalApp: app,
	}
}

// Shutdown 进程退出前终止所有在跑的构建
func (m *Module) Shutdown() {
	m.internalApp.Shutdown()
}
