package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	brandclient "brandkit/system/brand/api/client"
)

const (
	// generatorTimeout 生成脚本整体超时
	generatorTimeout = 5 * time.Minute

	applinksCommand = "npm run generate:applinks"
	unipushCommand  = "npm run generate:apps-json"
)

// GeneratorService 在uni-app工程目录下触发生成脚本（applinks、unipush云函数）
type GeneratorService struct {
	projectDir string
	brand      *brandclient.BrandClient
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewGeneratorService 创建生成脚本服务
func NewGeneratorService(projectDir string, brand *brandclient.BrandClient, log *logger.Log) *GeneratorService {
	return &GeneratorService{
		projectDir: projectDir,
		brand:      brand,
		log:        log.WithEntryName("GeneratorService"),
		err:        errorc.NewErrorBuilder("GeneratorService"),
	}
}

// run 执行生成命令，返回合并输出
func (s *GeneratorService) run(command string) (string, error) {
	if _, err := os.Stat(s.projectDir); err != nil {
		return "", s.err.New(fmt.Sprintf("项目目录不存在: %s", s.projectDir), err).NotFound()
	}

	ctx, cancel := context.WithTimeout(context.Background(), generatorTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = s.projectDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(output), s.err.New(fmt.Sprintf("命令执行超时: %s", command), ctx.Err()).Unavailable()
		}
		return string(output), s.err.New(fmt.Sprintf("命令执行失败: %s\n%s", command, strings.TrimSpace(string(output))), err)
	}
	return string(output), nil
}

// GenerateApplinks 生成各品牌的App Links关联文件
func (s *GeneratorService) GenerateApplinks() (string, error) {
	s.log.Info("开始执行 generate:applinks")
	return s.run(applinksCommand)
}

// GenerateUnipush 为品牌生成unipush云函数配置。
// 品牌必须已配置DCloud App ID。
func (s *GeneratorService) GenerateUnipush(alias string) (string, error) {
	info, err := s.brand.Info(alias)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(info.DcAppId) == "" {
		return "", s.err.New(fmt.Sprintf("品牌 %q 缺少 DCloud App ID (dc_appId)，请先配置后再生成 unipush 云函数", alias), nil).ValidWithCtx()
	}

	s.log.WithBrand(alias).Info("开始执行 generate:apps-json")
	return s.run(unipushCommand)
}
