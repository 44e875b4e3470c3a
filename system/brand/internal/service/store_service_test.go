package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

func newTestStore(t *testing.T) *StoreService {
	t.Helper()
	log := logger.GetLogger()
	codec := NewCodecService(log)
	keystore := NewKeystoreService(log)
	return NewStoreService(t.TempDir(), codec, keystore, log)
}

// TestStoreService_CreateAndRead 测试创建品牌后目录结构和配置内容
func TestStoreService_CreateAndRead(t *testing.T) {
	store := newTestStore(t)

	brandDir, err := store.Create(&model.BrandConfig{Alias: "acme", AppName: "测试品牌"})
	if err != nil {
		t.Fatalf("创建品牌失败: %v", err)
	}

	if _, err := os.Stat(filepath.Join(brandDir, ConfigFileName)); err != nil {
		t.Error("创建后应存在 index.ts")
	}
	if _, err := os.Stat(filepath.Join(brandDir, CertSubDir, "README.md")); err != nil {
		t.Error("创建后应存在证书目录README")
	}

	cfg, err := store.ReadParsed("acme")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if cfg.AppName != "测试品牌" {
		t.Errorf("app_name 不一致: %s", cfg.AppName)
	}
	if cfg.Packagename != "ai.restosuite.acme" {
		t.Errorf("packagename 应取默认值: %s", cfg.Packagename)
	}
	if cfg.FolderName != "acme" {
		t.Errorf("folderName 错误: %s", cfg.FolderName)
	}
}

// TestStoreService_Create_AlreadyExists 测试重复创建被拒绝且不动文件系统
func TestStoreService_Create_AlreadyExists(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&model.BrandConfig{Alias: "acme"}); err != nil {
		t.Fatalf("创建品牌失败: %v", err)
	}

	_, original, err := store.ReadRaw("acme")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}

	_, err = store.Create(&model.BrandConfig{Alias: "acme", AppName: "另一个"})
	if err == nil {
		t.Fatal("重复创建应失败")
	}
	if !strings.Contains(err.Error(), "已存在") {
		t.Errorf("错误信息应提示已存在: %v", err)
	}

	_, after, err := store.ReadRaw("acme")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if after != original {
		t.Error("重复创建不应覆盖已有配置")
	}
}

// TestStoreService_Create_InvalidAlias 测试非法alias被拒绝
func TestStoreService_Create_InvalidAlias(t *testing.T) {
	store := newTestStore(t)

	cases := []string{"", "a b", "中文", "a/b", "a.b"}
	for _, alias := range cases {
		if _, err := store.Create(&model.BrandConfig{Alias: alias}); err == nil {
			t.Errorf("alias %q 应被拒绝", alias)
		}
	}
}

// TestStoreService_ResolveAlias_DivergentNames 测试目录名与配置内别名不同时两个名字都能找到
func TestStoreService_ResolveAlias_DivergentNames(t *testing.T) {
	store := newTestStore(t)

	// 手工造一个目录名与aliasname不同的品牌
	brandDir := store.BrandDir("folder-x")
	if err := os.MkdirAll(brandDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "aliasname: 'branda',\n"
	if err := os.WriteFile(filepath.Join(brandDir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	folder, err := store.ResolveAlias("branda")
	if err != nil {
		t.Fatalf("按配置内别名解析失败: %v", err)
	}
	if folder != "folder-x" {
		t.Errorf("解析结果错误: %s", folder)
	}

	folder, err = store.ResolveAlias("folder-x")
	if err != nil {
		t.Fatalf("按目录名解析失败: %v", err)
	}
	if folder != "folder-x" {
		t.Errorf("解析结果错误: %s", folder)
	}

	if _, err := store.ResolveAlias("nothing"); err == nil {
		t.Error("不存在的别名应返回错误")
	} else if !errorc.IsNotFound(err) {
		t.Errorf("应是NotFound错误: %v", err)
	}
}

// TestStoreService_Create_AliasOccupied 测试新alias与已有品牌的配置内别名冲突时被拒绝
func TestStoreService_Create_AliasOccupied(t *testing.T) {
	store := newTestStore(t)

	brandDir := store.BrandDir("folder-x")
	if err := os.MkdirAll(brandDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(brandDir, ConfigFileName), []byte("aliasname: 'branda',\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.Create(&model.BrandConfig{Alias: "branda"})
	if err == nil {
		t.Fatal("与已有品牌别名冲突的创建应失败")
	}
	if !strings.Contains(err.Error(), "占用") {
		t.Errorf("错误信息应提示别名被占用: %v", err)
	}
}

// TestStoreService_Delete 测试删除与删除不存在品牌
func TestStoreService_Delete(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&model.BrandConfig{Alias: "acme"}); err != nil {
		t.Fatalf("创建品牌失败: %v", err)
	}
	if err := store.Delete("acme"); err != nil {
		t.Fatalf("删除品牌失败: %v", err)
	}
	if _, err := os.Stat(store.BrandDir("acme")); !os.IsNotExist(err) {
		t.Error("删除后目录应不存在")
	}

	err := store.Delete("acme")
	if err == nil {
		t.Fatal("删除不存在的品牌应失败")
	}
	if !errorc.IsNotFound(err) {
		t.Errorf("应是NotFound错误: %v", err)
	}
}

// TestStoreService_Import 测试原样导入配置内容
func TestStoreService_Import(t *testing.T) {
	store := newTestStore(t)

	content := "// 手工内容\naliasname: 'imported',\napp_name: '导入品牌',\n"
	if _, err := store.Import("imported", content); err != nil {
		t.Fatalf("导入失败: %v", err)
	}

	_, raw, err := store.ReadRaw("imported")
	if err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	if raw != content {
		t.Error("导入内容应原样落盘")
	}

	if _, err := store.Import("imported", content); err == nil {
		t.Error("重复导入应失败")
	}
	if _, err := store.Import("other", ""); err == nil {
		t.Error("空内容应被拒绝")
	}
}

// TestStoreService_UpdateVersions 测试定向改写版本字段不动其他内容
func TestStoreService_UpdateVersions(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&model.BrandConfig{Alias: "acme", TeamId: "TEAM1", VersionName: "1.0.0"}); err != nil {
		t.Fatalf("创建品牌失败: %v", err)
	}

	if err := store.UpdateVersions("acme", "2.0.0", "7", "8"); err != nil {
		t.Fatalf("更新版本失败: %v", err)
	}

	cfg, err := store.ReadParsed("acme")
	if err != nil {
		t.Fatalf("读取配置失败: %v", err)
	}
	if cfg.VersionName != "2.0.0" {
		t.Errorf("versionName 应为 2.0.0: %s", cfg.VersionName)
	}
	if cfg.AndroidVersionCode != "7" {
		t.Errorf("androidVersionCode 应为 7: %s", cfg.AndroidVersionCode)
	}
	if cfg.IosVersionCode != "8" {
		t.Errorf("iosVersionCode 应为 8: %s", cfg.IosVersionCode)
	}
	// 其他字段不受影响
	if cfg.TeamId != "TEAM1" {
		t.Errorf("teamId 不应被改动: %s", cfg.TeamId)
	}
}

// TestStoreService_List_CreatedAtStable 测试重写配置不改变按创建时间的排序
func TestStoreService_List_CreatedAtStable(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&model.BrandConfig{Alias: "older"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(&model.BrandConfig{Alias: "newer"}); err != nil {
		t.Fatal(err)
	}

	// 两次创建间隔太近，把older的创建锚点拨回一小时前
	olderReadme := filepath.Join(store.BrandDir("older"), CertSubDir, "README.md")
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(olderReadme, past, past); err != nil {
		t.Fatal(err)
	}

	summaries, err := store.List()
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("应列出2个品牌，实际 %d", len(summaries))
	}
	if summaries[0].FolderName != "newer" {
		t.Fatalf("创建时间新的应排在前面: %s", summaries[0].FolderName)
	}

	// 重写older的配置，不应把它顶到列表最前面
	if _, err := store.Update("older", &model.BrandConfig{Alias: "older", AppName: "改过"}); err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	summaries, err = store.List()
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if summaries[0].FolderName != "newer" {
		t.Error("更新配置后排序不应变化")
	}
}

// TestStoreService_List 测试列表排序与单项降级
func TestStoreService_List(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(&model.BrandConfig{Alias: "aaa", AppName: "A品牌"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(&model.BrandConfig{Alias: "bbb", AppName: "B品牌"}); err != nil {
		t.Fatal(err)
	}
	// 没有index.ts的目录不算品牌，不应出现在列表里
	if err := os.MkdirAll(store.BrandDir("broken"), 0755); err != nil {
		t.Fatal(err)
	}

	summaries, err := store.List()
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("应列出2个品牌，实际 %d", len(summaries))
	}

	found := map[string]bool{}
	for _, s := range summaries {
		found[s.FolderName] = true
	}
	if !found["aaa"] || !found["bbb"] {
		t.Error("列表应包含 aaa 和 bbb")
	}
	if found["broken"] {
		t.Error("没有配置文件的目录不应出现在列表里")
	}
}
