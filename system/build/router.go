package build

import (
	"github.com/gofiber/fiber/v2"

	controller "brandkit/system/build/external/http"
)

// RegisterRoutes 注册云打包组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api fiber.Router) {
	buildController := controller.NewBuildController(m.internalApp)
	buildController.RegisterRoutes(api)
}
