package packaging

import (
	"brandkit/system/brand"
	internalapp "brandkit/system/packaging/internal/app"
)

// Module 产物加工组件模块门面
type Module struct {
	internalApp *internalapp.App
}

// NewModule 创建产物加工模块，依赖品牌组件定位keystore和包名
func NewModule(brandModule *brand.Module) *Module {
	app := internalapp.NewApp(brandModule.Client)

	return &Module{
		internalApp: app,
	}
}
