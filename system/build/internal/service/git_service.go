package service

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/build/internal/model"
)

const (
	// gitQueryTimeout 分支查询类命令的超时，超时按软失败处理
	gitQueryTimeout = 5 * time.Second
	// gitNetworkTimeout fetch/pull等走网络的命令超时
	gitNetworkTimeout = 60 * time.Second
	// installTimeout 依赖安装超时
	installTimeout = 10 * time.Minute
)

// GitService uni-app工程目录上的git操作。
// 分支查询带短超时，网络不通时退化为只给本地信息。
type GitService struct {
	projectDir string
	log        *logger.Log
	err        *errorc.ErrorBuilder
}

// NewGitService 创建git服务
func NewGitService(projectDir string, log *logger.Log) *GitService {
	return &GitService{
		projectDir: projectDir,
		log:        log.WithEntryName("GitService"),
		err:        errorc.NewErrorBuilder("GitService"),
	}
}

// ProjectDir 工程根目录
func (s *GitService) ProjectDir() string {
	return s.projectDir
}

// run 在工程目录下执行命令，返回合并输出
func (s *GitService) run(timeout time.Duration, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = s.projectDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(output), s.err.New(fmt.Sprintf("命令执行超时: %s", command), ctx.Err())
		}
		return string(output), s.err.New(fmt.Sprintf("命令执行失败: %s\n%s", command, string(output)), err)
	}
	return string(output), nil
}

// CurrentBranch 当前检出的分支名
func (s *GitService) CurrentBranch() (string, error) {
	output, err := s.run(gitQueryTimeout, "git rev-parse --abbrev-ref HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

// Branches 列出本地+远程分支。
// 远程查询失败或超时只记日志，照常返回本地分支。
func (s *GitService) Branches() (*model.BranchInfo, error) {
	localOut, err := s.run(gitQueryTimeout, "git branch --format='%(refname:short)'")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var branches []string
	appendBranch := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || name == "HEAD" || strings.Contains(name, "->") {
			return
		}
		if !seen[name] {
			seen[name] = true
			branches = append(branches, name)
		}
	}

	for _, line := range strings.Split(localOut, "\n") {
		appendBranch(line)
	}

	remoteOut, err := s.run(gitQueryTimeout, "git branch -r --format='%(refname:short)'")
	if err != nil {
		s.log.WithErr(err).Warn("查询远程分支失败，仅返回本地分支")
	} else {
		for _, line := range strings.Split(remoteOut, "\n") {
			appendBranch(strings.TrimPrefix(strings.TrimSpace(line), "origin/"))
		}
	}

	sort.Strings(branches)

	current, err := s.CurrentBranch()
	if err != nil {
		s.log.WithErr(err).Warn("查询当前分支失败")
		current = ""
	}

	return &model.BranchInfo{Branches: branches, CurrentBranch: current}, nil
}

// EnsureBranch 切换到目标分支并装好依赖，返回过程输出（逐步给构建流转发）。
// 切换顺序固定：fetch→stash→checkout→pull→install，版本号改写必须放在这之后，
// 否则本地改动会卡住checkout。
func (s *GitService) EnsureBranch(branch string, emit func(line string)) error {
	if output, err := s.run(gitNetworkTimeout, "git fetch --prune"); err != nil {
		s.log.WithErr(err).Warn("git fetch失败，继续使用本地引用")
		emit(fmt.Sprintf("git fetch 失败，使用本地引用继续: %s\n", strings.TrimSpace(output)))
	} else {
		emit("git fetch 完成\n")
	}

	current, err := s.CurrentBranch()
	if err != nil {
		return err
	}

	if current != branch {
		// 未提交改动先收起来，失败不拦截
		if _, err := s.run(gitQueryTimeout, "git stash push --include-untracked"); err != nil {
			s.log.WithErr(err).Warn("git stash失败，继续尝试切换分支")
		}

		if _, err := s.run(gitQueryTimeout, fmt.Sprintf("git checkout %q", branch)); err != nil {
			if _, err := s.run(gitQueryTimeout, fmt.Sprintf("git checkout -b %q --track %q", branch, "origin/"+branch)); err != nil {
				return s.err.New(fmt.Sprintf("分支不存在: %s（本地和远程都没有）", branch), err).NotFound()
			}
		}
		emit(fmt.Sprintf("已切换到分支 %s\n", branch))
	}

	if output, err := s.run(gitNetworkTimeout, "git pull"); err != nil {
		s.log.WithErr(err).Warn("git pull失败，使用本地代码继续")
		emit(fmt.Sprintf("git pull 失败，使用本地代码继续: %s\n", strings.TrimSpace(output)))
	} else {
		emit("git pull 完成\n")
	}

	emit("开始安装依赖...\n")
	if _, err := s.run(installTimeout, "pnpm install"); err != nil {
		s.log.WithErr(err).Warn("pnpm install失败，回退到npm")
		if output, err := s.run(installTimeout, "npm install"); err != nil {
			return s.err.New(fmt.Sprintf("依赖安装失败:\n%s", strings.TrimSpace(output)), err)
		}
	}
	emit("依赖安装完成\n")
	return nil
}
