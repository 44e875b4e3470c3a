package brand

import (
	"github.com/gofiber/fiber/v2"

	controller "brandkit/system/brand/external/http"
)

// RegisterRoutes 注册品牌配置集组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api fiber.Router) {
	brandController := controller.NewBrandController(m.internalApp)
	brandController.RegisterRoutes(api)

	assetController := controller.NewAssetController(m.internalApp)
	assetController.RegisterRoutes(api)
}
