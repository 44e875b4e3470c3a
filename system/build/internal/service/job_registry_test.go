package service

import (
	"os/exec"
	"testing"
	"time"
)

// TestJobRegistry_SingleFlight 测试同一别名只允许一个任务
func TestJobRegistry_SingleFlight(t *testing.T) {
	registry := NewJobRegistry()

	job, ok := registry.Acquire("acme")
	if !ok || job == nil {
		t.Fatal("首次登记应成功")
	}
	if job.Alias != "acme" {
		t.Errorf("任务别名错误: %s", job.Alias)
	}

	if _, ok := registry.Acquire("acme"); ok {
		t.Error("别名被占用时二次登记应被拒绝")
	}

	// 别的别名不受影响
	if _, ok := registry.Acquire("other"); !ok {
		t.Error("不同别名应能登记")
	}

	registry.Release("acme")
	if _, ok := registry.Acquire("acme"); !ok {
		t.Error("释放后应能重新登记")
	}
}

// TestJobRegistry_Cancel 测试取消在跑任务与取消不存在的任务
func TestJobRegistry_Cancel(t *testing.T) {
	registry := NewJobRegistry()

	if registry.Cancel("nothing") {
		t.Error("不存在的任务取消应返回false")
	}

	job, _ := registry.Acquire("acme")
	cmd := exec.Command("sh", "-c", "sleep 30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("启动测试进程失败: %v", err)
	}
	job.Bind(cmd)

	if !registry.Cancel("acme") {
		t.Fatal("取消在跑任务应成功")
	}
	if !job.Cancelled() {
		t.Error("取消后任务应带取消标记")
	}

	// 进程应很快退出
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("取消后进程应退出")
	}

	// 登记项已摘掉
	if registry.Cancel("acme") {
		t.Error("重复取消应返回false")
	}
}

// TestJobRegistry_Shutdown 测试关停时清空所有任务
func TestJobRegistry_Shutdown(t *testing.T) {
	registry := NewJobRegistry()

	jobA, _ := registry.Acquire("a")
	jobB, _ := registry.Acquire("b")

	registry.Shutdown()

	if !jobA.Cancelled() || !jobB.Cancelled() {
		t.Error("关停后所有任务应带取消标记")
	}
	if _, ok := registry.Acquire("a"); !ok {
		t.Error("关停后登记表应已清空")
	}
}

// TestJob_CancelBeforeBind 测试进程启动前取消只打标记
func TestJob_CancelBeforeBind(t *testing.T) {
	registry := NewJobRegistry()
	job, _ := registry.Acquire("acme")

	job.Cancel()
	if !job.Cancelled() {
		t.Error("未绑定进程时取消应打上标记")
	}
}

// TestJob_CancelBetweenStartAndBind 测试启动后绑定前的取消也能终止进程
func TestJob_CancelBetweenStartAndBind(t *testing.T) {
	registry := NewJobRegistry()
	job, _ := registry.Acquire("acme")

	cmd := exec.Command("sh", "-c", "sleep 30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("启动测试进程失败: %v", err)
	}

	// 取消发生在Start之后、Bind之前，Bind要补发终止信号
	job.Cancel()
	job.Bind(cmd)

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Error("绑定后进程应被终止")
	}
}
