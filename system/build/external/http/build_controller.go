package http

import (
	"bufio"
	"fmt"

	"github.com/gofiber/fiber/v2"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/result"
	"brandkit/system/build/api/dto"
	"brandkit/system/build/internal/app"
	"brandkit/system/build/internal/service"
	"brandkit/utils"
)

// BuildController 云打包HTTP控制器
type BuildController struct {
	app *app.App
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewBuildController 创建云打包控制器
func NewBuildController(app *app.App) *BuildController {
	return &BuildController{
		app: app,
		log: logger.GetLogger().WithEntryName("BuildController"),
		err: errorc.NewErrorBuilder("BuildController"),
	}
}

// RegisterRoutes 注册云打包路由
func (c *BuildController) RegisterRoutes(api fiber.Router) {
	api.Post("/configs/:alias/cloud-build", c.cloudBuild)
	api.Post("/configs/:alias/cloud-build/cancel", c.cancelBuild)
	api.Get("/git-branches", c.gitBranches)
	api.Post("/generate-applinks", c.generateApplinks)
	api.Post("/configs/:alias/generate-unipush", c.generateUnipush)
}

// cloudBuild 启动云打包，以 text/event-stream 逐帧推送过程输出。
// 校验阶段的失败走普通HTTP错误；切到流式之后所有失败都以error帧上报。
// 客户端断开时取消构建，但继续把事件流读干避免阻塞后台协程。
func (c *BuildController) cloudBuild(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	req := new(dto.CloudBuildRequest)
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(req); err != nil {
			return result.BadRequestNormal(ctx, "请求参数解析失败", err)
		}
	}
	if msg, err := utils.Validate(req); err != nil {
		return result.BadRequest(ctx, c.err.New(msg, err).ValidWithCtx())
	}

	params := &service.BuildParams{
		Platform:           req.Platform,
		Operation:          req.Operation,
		Branch:             req.Branch,
		Environment:        req.Environment,
		VersionName:        req.VersionName,
		AndroidVersionCode: req.AndroidVersionCode,
		IosVersionCode:     req.IosVersionCode,
	}

	job, err := c.app.Build.Prepare(alias, params)
	if err != nil {
		return result.BadRequest(ctx, err)
	}

	events := c.app.Build.Run(job, params)

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		clientGone := false
		for ev := range events {
			if clientGone {
				continue
			}
			payload, err := utils.ToJSON(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err == nil {
				err = w.Flush()
				if err == nil {
					continue
				}
			}
			// 写失败说明客户端断开，终止构建并把剩余事件读干
			c.log.WithBrand(alias).Warn("客户端断开，取消构建")
			job.Cancel()
			clientGone = true
		}
	})
	return nil
}

func (c *BuildController) cancelBuild(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	if err := c.app.Build.Cancel(alias); err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{"success": true, "message": "构建已取消"})
}

func (c *BuildController) gitBranches(ctx *fiber.Ctx) error {
	info, err := c.app.Branches()
	return result.Once(ctx, info, err)
}

func (c *BuildController) generateApplinks(ctx *fiber.Ctx) error {
	output, err := c.app.Generator.GenerateApplinks()
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": "applinks 生成成功",
		"output":  output,
	})
}

func (c *BuildController) generateUnipush(ctx *fiber.Ctx) error {
	alias := ctx.Params("alias")

	output, err := c.app.Generator.GenerateUnipush(alias)
	if err != nil {
		return result.BadRequest(ctx, err)
	}
	return result.OK(ctx, fiber.Map{
		"success": true,
		"message": fmt.Sprintf("品牌 %q 的 unipush 云函数生成成功", alias),
		"output":  output,
	})
}
