package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brandkit/base"
	"brandkit/pkg/core/logger"
	"brandkit/pkg/core/start"
	"brandkit/system/brand"
)

// newTestBrandModule 在临时appConfig目录上搭品牌组件
func newTestBrandModule(t *testing.T) (*brand.Module, string) {
	t.Helper()
	dir := t.TempDir()
	base.Configures = &start.Configures{Config: start.Config{Dirs: start.DirConfig{AppConfig: dir}}}
	return brand.NewModule(), dir
}

// writeBrand 直接落盘一个品牌配置
func writeBrand(t *testing.T, appConfigDir, folderName, content string) {
	t.Helper()
	brandDir := filepath.Join(appConfigDir, folderName)
	if err := os.MkdirAll(brandDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(brandDir, "index.ts"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestBuildService_BuildCommand 测试构建命令拼接
func TestBuildService_BuildCommand(t *testing.T) {
	service := NewBuildService(NewJobRegistry(), nil, nil, "", logger.GetLogger())

	cases := []struct {
		params   *BuildParams
		contains []string
	}{
		{&BuildParams{}, []string{"npm run build:app", "--brand acme"}},
		{&BuildParams{Operation: "build:ios"}, []string{"npm run build:ios"}},
		{&BuildParams{Platform: "android"}, []string{"--platform android"}},
	}

	for _, c := range cases {
		command := service.buildCommand("acme", c.params)
		for _, want := range c.contains {
			if !strings.Contains(command, want) {
				t.Errorf("命令 %q 应包含 %q", command, want)
			}
		}
	}
}

// TestBuildService_Prepare_EnvironmentMismatch 测试品牌与构建环境的一致性校验
func TestBuildService_Prepare_EnvironmentMismatch(t *testing.T) {
	module, dir := newTestBrandModule(t)
	writeBrand(t, dir, "testa", "aliasname: 'testa',\nisTest: true,\n")
	writeBrand(t, dir, "proda", "aliasname: 'proda',\nisTest: false,\n")

	registry := NewJobRegistry()
	service := NewBuildService(registry, nil, module.Client, "", logger.GetLogger())

	if _, err := service.Prepare("testa", &BuildParams{Environment: "production"}); err == nil {
		t.Fatal("测试品牌打正式包应被拒绝")
	} else if !strings.Contains(err.Error(), "测试品牌") {
		t.Errorf("错误信息不对: %v", err)
	}

	if _, err := service.Prepare("proda", &BuildParams{Environment: "test"}); err == nil {
		t.Fatal("正式品牌打测试包应被拒绝")
	} else if !strings.Contains(err.Error(), "正式品牌") {
		t.Errorf("错误信息不对: %v", err)
	}

	// 拒绝发生在登记之前，登记表不应被占用
	if _, ok := registry.Acquire("testa"); !ok {
		t.Error("校验失败不应占用登记表")
	}
	registry.Release("testa")

	// 不传environment时跟随品牌自身的isTest
	job, err := service.Prepare("testa", &BuildParams{})
	if err != nil {
		t.Fatalf("测试品牌默认环境应放行: %v", err)
	}
	registry.Release(job.Alias)

	job, err = service.Prepare("proda", &BuildParams{})
	if err != nil {
		t.Fatalf("正式品牌默认环境应放行: %v", err)
	}
	registry.Release(job.Alias)
}

// TestBuildService_Cancel_NotRunning 测试取消不存在的任务报NotFound
func TestBuildService_Cancel_NotRunning(t *testing.T) {
	service := NewBuildService(NewJobRegistry(), nil, nil, "", logger.GetLogger())

	err := service.Cancel("nothing")
	if err == nil {
		t.Fatal("取消不存在的任务应失败")
	}
	if !strings.Contains(err.Error(), "没有正在进行的构建任务") {
		t.Errorf("错误信息不对: %v", err)
	}
}
