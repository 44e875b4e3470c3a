package http

import (
	"io"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/result"
	"brandkit/system/packaging/api/dto"
	"brandkit/system/packaging/internal/app"
	"brandkit/utils"
)

// PackagingController 产物加工HTTP控制器
type PackagingController struct {
	app *app.App
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewPackagingController 创建产物加工控制器
func NewPackagingController(app *app.App) *PackagingController {
	return &PackagingController{
		app: app,
		log: logger.GetLogger().WithEntryName("PackagingController"),
		err: errorc.NewErrorBuilder("PackagingController"),
	}
}

// RegisterRoutes 注册产物加工路由
func (c *PackagingController) RegisterRoutes(api fiber.Router) {
	api.Post("/aab-to-apk/:alias", c.aabToApk)
	api.Delete("/downloads/:filename", c.deleteDownload)
	api.Post("/upload-to-pgyer", c.uploadToPgyer)
	api.Post("/configs/:alias/push-test", c.pushTest)
}

// readUpload 读取multipart上传文件
func (c *PackagingController) readUpload(ctx *fiber.Ctx, field string) (filename string, data []byte, err error) {
	fileHeader, err := ctx.FormFile(field)
	if err != nil {
		return "", nil, c.err.New("请选择要上传的文件", err).ValidWithCtx()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, c.err.New("读取上传文件失败", err)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return "", nil, c.err.New("读取上传文件失败", err)
	}
	return fileHeader.Filename, data, nil
}

func (c *PackagingController) aabToApk(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	filename, data, err := c.readUpload(ctx, "file")
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".aab") {
		return result.BadRequest(ctx, c.err.New("请上传 .aab 文件", nil).ValidWithCtx())
	}

	converted, err := c.app.Convert.Convert(alias, filename, data)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success":     true,
		"message":     "转换成功",
		"fileName":    converted.FileName,
		"size":        converted.Size,
		"downloadUrl": converted.DownloadUrl,
		"ossUrl":      converted.OssUrl,
	})
}

func (c *PackagingController) deleteDownload(ctx *fiber.Ctx) error {
	filename, err := url.PathUnescape(ctx.Params("filename"))
	if err != nil {
		return result.BadRequestNormal(ctx, "文件名不合法", err)
	}

	if err := c.app.Downloads.Delete(filename); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "文件删除成功"})
}

func (c *PackagingController) uploadToPgyer(ctx *fiber.Ctx) error {
	filename, data, err := c.readUpload(ctx, "file")
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	description := ctx.FormValue("buildUpdateDescription")

	uploaded, err := c.app.Pgyer.Upload(filename, description, data)
	return result.Once(ctx, uploaded, err)
}

func (c *PackagingController) pushTest(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	req := new(dto.PushTestRequest)
	if err := ctx.BodyParser(req); err != nil {
		return result.BadRequestNormal(ctx, "请求参数解析失败", err)
	}
	if msg, err := utils.Validate(req); err != nil {
		return result.BadRequest(ctx, c.err.New(msg, err).ValidWithCtx())
	}

	pushed, err := c.app.Push.TestPush(alias, req.Title, req.Content, req.Cid, req.Page)
	return result.Once(ctx, pushed, err)
}
