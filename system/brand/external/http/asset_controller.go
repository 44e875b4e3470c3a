package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/result"
	"brandkit/system/brand/internal/app"
	"brandkit/system/brand/internal/service"
)

// AssetController 品牌素材槽位HTTP控制器
type AssetController struct {
	app *app.App
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewAssetController 创建品牌素材控制器
func NewAssetController(app *app.App) *AssetController {
	return &AssetController{
		app: app,
		log: logger.GetLogger().WithEntryName("BrandAssetController"),
		err: errorc.NewErrorBuilder("BrandAssetController"),
	}
}

// RegisterRoutes 注册素材槽位路由
func (c *AssetController) RegisterRoutes(api fiber.Router) {
	api.Post("/configs/:alias/logo", c.uploadLogo)
	api.Delete("/configs/:alias/logo", c.deleteLogo)
	api.Get("/configs/:alias/logo", c.getLogo)

	api.Post("/configs/:alias/certificate/p12", c.uploadP12)
	api.Delete("/configs/:alias/certificate/p12", c.deleteP12)
	api.Get("/configs/:alias/certificate/p12", c.getP12)

	api.Post("/configs/:alias/certificate/mobileprovision", c.uploadMobileprovision)
	api.Delete("/configs/:alias/certificate/mobileprovision", c.deleteMobileprovision)
	api.Get("/configs/:alias/certificate/mobileprovision", c.getMobileprovision)

	api.Post("/configs/:alias/other", c.uploadOther)
	api.Get("/configs/:alias/other", c.listOther)
	api.Delete("/configs/:alias/other/:filename", c.deleteOther)
}

// readUpload 读取multipart上传文件
func (c *AssetController) readUpload(ctx *fiber.Ctx, field string) (filename, contentType string, data []byte, err error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return "", "", nil, c.err.New("请选择要上传的文件", err).ValidWithCtx()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, c.err.New("读取上传文件失败", err)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, c.err.New("读取上传文件失败", err)
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}

func (c *AssetController) uploadLogo(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	_, contentType, data, err := c.readUpload(ctx, "logo")
	if err != nil {
		return result.BadRequest(ctx, err)
	}

	url, err := c.app.Assets.UploadLogo(alias, contentType, data)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": "Logo 上传成功",
		"url":     url,
	})
}

func (c *AssetController) deleteLogo(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	if err := c.app.Assets.DeleteLogo(alias); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "Logo 删除成功"})
}

func (c *AssetController) getLogo(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	exists, url, err := c.app.Assets.GetLogo(alias)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	if !exists {
		return result.OK(ctx, fiber.Map{"exists": false, "url": nil})
	}
	return result.OK(ctx, fiber.Map{"exists": true, "url": url})
}

func (c *AssetController) uploadP12(ctx *fiber.Ctx) error {
	return c.uploadCertSlot(ctx, "p12", ".p12", service.P12FileName, "P12 证书上传成功")
}

func (c *AssetController) deleteP12(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	if err := c.app.Assets.DeleteCertSlot(alias, service.P12FileName); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "P12 证书删除成功"})
}

func (c *AssetController) getP12(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	info, err := c.app.Assets.GetCertSlot(alias, service.P12FileName)
	return result.Once(ctx, info, err)
}

func (c *AssetController) uploadMobileprovision(ctx *fiber.Ctx) error {
	return c.uploadCertSlot(ctx, "mobileprovision", ".mobileprovision", service.MobileprovisionFileName, "Mobileprovision 文件上传成功")
}

func (c *AssetController) deleteMobileprovision(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	if err := c.app.Assets.DeleteCertSlot(alias, service.MobileprovisionFileName); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "Mobileprovision 文件删除成功"})
}

func (c *AssetController) getMobileprovision(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	info, err := c.app.Assets.GetCertSlot(alias, service.MobileprovisionFileName)
	return result.Once(ctx, info, err)
}

func (c *AssetController) uploadCertSlot(ctx *fiber.Ctx, field, requiredExt, slotFile, successMsg string) error {
	alias := ctx.Params("alias")

	filename, _, data, err := c.readUpload(ctx, field)
	if err != nil {
		return result.BadRequest(ctx, err)
	}

	if err := c.app.Assets.UploadCertSlot(alias, filename, requiredExt, slotFile, data); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success":  true,
		"message":  successMsg,
		"filename": slotFile,
	})
}

func (c *AssetController) uploadOther(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	filename, _, data, err := c.readUpload(ctx, "file")
	if err != nil {
		return result.BadRequest(ctx, err)
	}

	savedName, err := c.app.Assets.UploadOther(alias, filename, data)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success":  true,
		"message":  "文件上传成功",
		"filename": savedName,
	})
}

func (c *AssetController) listOther(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	files, err := c.app.Assets.ListOther(alias)
	return result.Once(ctx, files, err)
}

func (c *AssetController) deleteOther(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")
	filename, err := decodeParam(ctx.Params("filename"))
	if err != nil {
		return result.BadRequestNormal(ctx, "文件名不合法", err)
	}

	if err := c.app.Assets.DeleteOther(alias, filename); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "文件删除成功"})
}
