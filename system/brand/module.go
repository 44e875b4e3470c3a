package brand

import (
	"brandkit/system/brand/api/client"
	internalapp "brandkit/system/brand/internal/app"
)

// Module 品牌配置集组件模块门面
// 封装内部app，跨组件能力通过Client暴露
type Module struct {
	internalApp *internalapp.App
	// Client 对外客户端，供云打包、产物加工组件查询品牌
	Client *client.BrandClient
}

// NewModule 创建品牌配置集组件模块
func NewModule() *Module {
	app := internalapp.NewApp()

	return &Module{
		internalApp: app,
		Client:      client.NewBrandClient(app),
	}
}
