package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/result"
	"brandkit/system/brand/api/dto"
	"brandkit/system/brand/internal/app"
	"brandkit/system/brand/internal/model"
	"brandkit/utils"
)

// BrandController 品牌配置HTTP控制器
type BrandController struct {
	app *app.App
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewBrandController 创建品牌配置控制器
func NewBrandController(app *app.App) *BrandController {
	return &BrandController{
		app: app,
		log: logger.GetLogger().WithEntryName("BrandController"),
		err: errorc.NewErrorBuilder("BrandController"),
	}
}

// RegisterRoutes 注册品牌配置路由
// 具体路径在前，:alias通配在后，避免路由冲突
func (c *BrandController) RegisterRoutes(api fiber.Router) {
	api.Get("/configs", c.list)
	api.Post("/configs", c.create)
	api.Post("/configs/import", c.importConfig)
	api.Post("/keystore", c.generateKeystore)

	api.Get("/configs/:alias/keystore", c.keystoreInfo)
	api.Post("/configs/:alias/version", c.updateVersion)

	api.Get("/configs/:alias", c.get)
	api.Put("/configs/:alias", c.update)
	api.Delete("/configs/:alias", c.remove)
}

func (c *BrandController) list(ctx *fiber.Ctx) error {
	summaries, err := c.app.Store.List()
	return result.Once(ctx, summaries, err)
}

// toConfig 请求字段换算成品牌配置记录，派生字段在这里补齐
func toConfig(alias string, req *dto.SaveBrandRequest) *model.BrandConfig {
	region := model.Region(req.BaseUrlRegion)
	if req.BaseUrlRegion == "" {
		region = model.RegionTest
	}

	cfg := &model.BrandConfig{
		Alias:               alias,
		AppName:             req.AppName,
		AppEnName:           req.AppEnName,
		AppDescription:      req.AppDescription,
		DcAppId:             req.DcAppId,
		Packagename:         req.Packagename,
		IosAppId:            req.IosAppId,
		CfBundleName:        req.CfBundleName,
		TeamId:              req.TeamId,
		BaseUrl:             region.BaseURL(),
		IosApplinksDomain:   req.IosApplinksDomain,
		AppLinksuffix:       "Restosuite" + utils.CamelCase(alias),
		Schemes:             alias,
		Urltypes:            alias,
		VersionName:         req.VersionName,
		VersionCode:         req.VersionCode,
		IosVersionCode:      req.IosVersionCode,
		AndroidVersionCode:  req.AndroidVersionCode,
		Locale:              req.Locale,
		CorporationId:       req.CorporationId,
		ExtAppId:            req.ExtAppId,
		ReviewAccount:       req.ReviewAccount,
		ReviewPassword:      req.ReviewPassword,
		IosDownloadUrl:      req.IosDownloadUrl,
		ThemeColor:          req.ThemeColor,
		IsSupportEnterprise: req.IsSupportEnterprise,
		IsTest:              req.IsTest,
		IsSupportHotUpdate:  req.IsSupportHotUpdate,
		IsSupportAppSetting: req.IsSupportAppSetting,
	}
	if req.Splashscreen != nil {
		cfg.Splashscreen = &model.Splashscreen{
			IosStyle:     req.Splashscreen.IosStyle,
			AndroidStyle: req.Splashscreen.AndroidStyle,
		}
	}
	return cfg
}

func (c *BrandController) create(ctx *fiber.Ctx) error {
	var req dto.SaveBrandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return result.BadRequestNormal(ctx, "解析请求参数失败", err)
	}
	if req.Alias == "" {
		return c.err.New("缺少必填字段: alias", nil).ValidWithCtx()
	}
	if msg, err := utils.Validate(req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	path, err := c.app.Store.Create(toConfig(req.Alias, &req))
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": fmt.Sprintf("品牌配置 %s 创建成功", req.Alias),
		"path":    path,
	})
}

func (c *BrandController) get(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	if ctx.Query("parse") == "true" {
		cfg, err := c.app.Store.ReadParsed(alias)
		return result.Once(ctx, cfg, err)
	}

	folderName, content, err := c.app.Store.ReadRaw(alias)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"alias":      alias,
		"folderName": folderName,
		"content":    content,
	})
}

func (c *BrandController) update(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	var req dto.SaveBrandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return result.BadRequestNormal(ctx, "解析请求参数失败", err)
	}
	if msg, err := utils.Validate(req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	path, err := c.app.Store.Update(alias, toConfig(alias, &req))
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": fmt.Sprintf("品牌配置 %s 更新成功", alias),
		"path":    path,
	})
}

func (c *BrandController) remove(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	if err := c.app.Store.Delete(alias); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": fmt.Sprintf("品牌配置 %s 删除成功", alias),
	})
}

func (c *BrandController) importConfig(ctx *fiber.Ctx) error {
	var req dto.ImportBrandRequest
	if err := ctx.BodyParser(&req); err != nil {
		return result.BadRequestNormal(ctx, "解析请求参数失败", err)
	}
	if msg, err := utils.Validate(req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	path, err := c.app.Store.Import(req.Alias, req.Content)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": fmt.Sprintf("品牌配置 %s 导入成功", req.Alias),
		"path":    path,
	})
}

func (c *BrandController) generateKeystore(ctx *fiber.Ctx) error {
	var req dto.GenerateKeystoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return result.BadRequestNormal(ctx, "解析请求参数失败", err)
	}
	if msg, err := utils.Validate(req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	if err := c.app.GenerateKeystore(req.Alias); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": "keystore 文件生成成功",
	})
}

func (c *BrandController) keystoreInfo(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	lookup, err := c.app.KeystoreInfo(alias)
	return result.Once(ctx, lookup, err)
}

func (c *BrandController) updateVersion(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	var req dto.UpdateVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return result.BadRequestNormal(ctx, "解析请求参数失败", err)
	}
	if req.VersionName == "" && req.AndroidVersionCode == "" && req.IosVersionCode == "" {
		return c.err.New("至少提供一个版本字段", nil).ValidWithCtx()
	}

	if err := c.app.Store.UpdateVersions(alias, req.VersionName, req.AndroidVersionCode, req.IosVersionCode); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": "版本号更新成功",
	})
}
