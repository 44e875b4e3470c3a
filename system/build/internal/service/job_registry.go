package service

import (
	"os/exec"
	"sync"
	"syscall"
)

// Job 一次正在进行的构建任务句柄
type Job struct {
	Alias string

	mu        sync.Mutex
	cmd       *exec.Cmd
	cancelled bool
}

// Bind 记录任务对应的进程句柄。
// 启动到绑定的间隙里进来的取消只打了标记，这里补发终止信号。
func (j *Job) Bind(cmd *exec.Cmd) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cmd = cmd
	if j.cancelled && cmd.Process != nil {
		_ = cmd.Process.Signal(syscall.SIGTERM)
	}
}

// Cancel 标记取消并向进程发终止信号。
// 进程尚未绑定时只做标记，Bind时补发信号。
func (j *Job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancelled {
		return
	}
	j.cancelled = true
	if j.cmd != nil && j.cmd.Process != nil {
		_ = j.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// Cancelled 任务是否已被取消
func (j *Job) Cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}

// JobRegistry 构建任务登记表，按品牌别名单飞。
// 同一别名已有任务时拒绝新任务，避免先起的进程被悄悄顶掉后无人认领。
type JobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewJobRegistry 创建任务登记表
func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]*Job)}
}

// Acquire 登记新任务，别名已被占用时返回false
func (r *JobRegistry) Acquire(alias string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.jobs[alias]; busy {
		return nil, false
	}
	job := &Job{Alias: alias}
	r.jobs[alias] = job
	return job, true
}

// Get 查询别名对应的任务
func (r *JobRegistry) Get(alias string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[alias]
	return job, ok
}

// Release 摘掉登记项，幂等
func (r *JobRegistry) Release(alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, alias)
}

// Cancel 取消并摘掉别名对应的任务，不存在时返回false
func (r *JobRegistry) Cancel(alias string) bool {
	r.mu.Lock()
	job, ok := r.jobs[alias]
	if ok {
		delete(r.jobs, alias)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	job.Cancel()
	return true
}

// Shutdown 进程退出前取消所有在跑的任务
func (r *JobRegistry) Shutdown() {
	r.mu.Lock()
	jobs := make([]*Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	r.jobs = make(map[string]*Job)
	r.mu.Unlock()

	for _, job := range jobs {
		job.Cancel()
	}
}
