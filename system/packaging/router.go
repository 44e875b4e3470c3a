package packaging

import (
	"github.com/gofiber/fiber/v2"

	controller "brandkit/system/packaging/external/http"
)

// RegisterRoutes 注册产物加工组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api fiber.Router) {
	packagingController := controller.NewPackagingController(m.internalApp)
	packagingController.RegisterRoutes(api)
}
