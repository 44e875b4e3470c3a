package router

import (
	"github.com/gofiber/fiber/v2"

	"brandkit/app"
	"brandkit/system/brand"
	"brandkit/system/build"
	"brandkit/system/packaging"
)

// Register 负责集中注册所有 HTTP 路由。
// 按规范：
//   - 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server）。
//   - 不直接依赖任何 Service / system/internal 包。
//   - 不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	api := f.Group("/api")

	// 品牌配置集组件路由（配置CRUD、签名证书、素材槽位）
	brand.RegisterRoutes(a.BrandModule, api)

	// 云打包组件路由（构建编排、git分支、applinks/unipush生成）
	build.RegisterRoutes(a.BuildModule, api)

	// 产物加工组件路由（aab转apk、下载产物管理、蒲公英上传、推送测试）
	packaging.RegisterRoutes(a.PackagingModule, api)
}
