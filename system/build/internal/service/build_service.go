package service

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	brandclient "brandkit/system/brand/api/client"
	"brandkit/system/build/internal/model"
)

const (
	// DefaultOperation 未指定operation时执行的npm脚本
	DefaultOperation = "build:app"
	// eventBuffer 事件通道缓冲，客户端短暂卡顿不至于阻塞读进程输出
	eventBuffer = 256
)

// BuildParams 一次云打包的入参
type BuildParams struct {
	Platform           string
	Operation          string
	Branch             string
	Environment        string
	VersionName        string
	AndroidVersionCode string
	IosVersionCode     string
}

// BuildService 云打包编排。
// 校验和登记同步做完，分支切换、改版本号、起进程都在流式阶段执行，
// 过程输出逐块推给客户端。
type BuildService struct {
	registry   *JobRegistry
	git        *GitService
	brand      *brandclient.BrandClient
	projectDir string
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewBuildService 创建云打包服务
func NewBuildService(registry *JobRegistry, git *GitService, brand *brandclient.BrandClient, projectDir string, log *logger.Log) *BuildService {
	return &BuildService{
		registry:   registry,
		git:        git,
		brand:      brand,
		projectDir: projectDir,
		log:        log.WithEntryName("BuildService"),
		err:        errorc.NewErrorBuilder("BuildService"),
	}
}

// Prepare 校验入参并登记任务。
// 这里失败还没切到流式响应，走正常HTTP错误；通过之后的失败都以事件上报。
func (s *BuildService) Prepare(alias string, p *BuildParams) (*Job, error) {
	info, err := s.brand.Info(alias)
	if err != nil {
		return nil, err
	}

	env := p.Environment
	if env == "" {
		if info.IsTest {
			env = "test"
		} else {
			env = "production"
		}
	}
	// 测试品牌只许打测试包，正式品牌只许打正式包，不符就不碰文件系统
	if info.IsTest && env != "test" {
		return nil, s.err.New(fmt.Sprintf("品牌 %q 是测试品牌，只能在 test 环境构建", alias), nil).ValidWithCtx()
	}
	if !info.IsTest && env == "test" {
		return nil, s.err.New(fmt.Sprintf("品牌 %q 是正式品牌，不能在 test 环境构建", alias), nil).ValidWithCtx()
	}

	job, ok := s.registry.Acquire(alias)
	if !ok {
		return nil, s.err.New(fmt.Sprintf("品牌 %q 已有构建任务在进行中，请先取消或等待完成", alias), nil).ValidWithCtx()
	}
	return job, nil
}

// buildCommand 拼构建命令行
func (s *BuildService) buildCommand(folderName string, p *BuildParams) string {
	operation := p.Operation
	if operation == "" {
		operation = DefaultOperation
	}

	parts := []string{"npm", "run", operation, "--", "--brand", folderName}
	if p.Platform != "" {
		parts = append(parts, "--platform", p.Platform)
	}
	return strings.Join(parts, " ")
}

// Run 执行构建并返回事件流。
// 通道在终态事件之后关闭，登记项在所有终态路径都会摘掉。
func (s *BuildService) Run(job *Job, p *BuildParams) <-chan model.BuildEvent {
	events := make(chan model.BuildEvent, eventBuffer)

	go func() {
		defer close(events)
		defer s.registry.Release(job.Alias)

		fail := func(msg string) {
			events <- model.BuildEvent{Type: model.EventError, Data: msg}
		}

		if p.Branch != "" {
			err := s.git.EnsureBranch(p.Branch, func(line string) {
				events <- model.BuildEvent{Type: model.EventOutput, Data: line}
			})
			if err != nil {
				s.log.WithBrand(job.Alias).WithErr(err).Error("分支切换失败")
				fail(err.Error())
				return
			}
		}

		// 版本号改写放在分支切换之后，避免改动被stash收走
		if p.VersionName != "" || p.AndroidVersionCode != "" || p.IosVersionCode != "" {
			if err := s.brand.UpdateVersions(job.Alias, p.VersionName, p.AndroidVersionCode, p.IosVersionCode); err != nil {
				s.log.WithBrand(job.Alias).WithErr(err).Error("改写版本号失败")
				fail(err.Error())
				return
			}
			events <- model.BuildEvent{Type: model.EventOutput, Data: "版本号已更新\n"}
		}

		folderName, err := s.brand.ResolveAlias(job.Alias)
		if err != nil {
			fail(err.Error())
			return
		}

		commandLine := s.buildCommand(folderName, p)
		events <- model.BuildEvent{Type: model.EventOutput, Data: fmt.Sprintf("$ %s\n", commandLine)}

		cmd := exec.Command("sh", "-c", commandLine)
		cmd.Dir = s.projectDir

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			fail(fmt.Sprintf("创建输出管道失败: %v", err))
			return
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			fail(fmt.Sprintf("创建输出管道失败: %v", err))
			return
		}

		if job.Cancelled() {
			events <- model.BuildEvent{Type: model.EventCancelled, Data: "构建已取消"}
			return
		}

		if err := cmd.Start(); err != nil {
			s.log.WithBrand(job.Alias).WithErr(err).Error("构建进程启动失败")
			fail(fmt.Sprintf("构建进程启动失败: %v", err))
			return
		}
		job.Bind(cmd)
		s.log.WithBrand(job.Alias).Infof("构建进程已启动 pid=%d", cmd.Process.Pid)

		var combined strings.Builder
		var combinedMu sync.Mutex
		var wg sync.WaitGroup

		forward := func(r io.Reader) {
			defer wg.Done()
			buf := make([]byte, 4096)
			for {
				n, err := r.Read(buf)
				if n > 0 {
					chunk := string(buf[:n])
					combinedMu.Lock()
					combined.WriteString(chunk)
					combinedMu.Unlock()
					events <- model.BuildEvent{Type: model.EventOutput, Data: chunk}
				}
				if err != nil {
					return
				}
			}
		}

		wg.Add(2)
		go forward(stdout)
		go forward(stderr)
		wg.Wait()

		waitErr := cmd.Wait()

		combinedMu.Lock()
		output := combined.String()
		combinedMu.Unlock()

		switch {
		case job.Cancelled():
			s.log.WithBrand(job.Alias).Info("构建已取消")
			events <- model.BuildEvent{Type: model.EventCancelled, Data: "构建已取消"}
		case waitErr == nil:
			s.log.WithBrand(job.Alias).Info("构建成功")
			events <- model.BuildEvent{Type: model.EventSuccess, Data: output}
		default:
			s.log.WithBrand(job.Alias).WithErr(waitErr).Error("构建失败")
			events <- model.BuildEvent{Type: model.EventError, Data: fmt.Sprintf("构建失败: %v\n%s", waitErr, output)}
		}
	}()

	return events
}

// Cancel 取消别名对应的构建任务
func (s *BuildService) Cancel(alias string) error {
	if !s.registry.Cancel(alias) {
		return s.err.New(fmt.Sprintf("品牌 %q 没有正在进行的构建任务", alias), nil).NotFound()
	}
	return nil
}

// Shutdown 进程退出前终止所有构建
func (s *BuildService) Shutdown() {
	s.registry.Shutdown()
}
