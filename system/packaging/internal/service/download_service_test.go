package service

import (
	"os"
	"path/filepath"
	"testing"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
)

// TestDownloadService_Delete 测试产物删除的限制
func TestDownloadService_Delete(t *testing.T) {
	dir := t.TempDir()
	service := NewDownloadService(dir, logger.GetLogger())

	apk := filepath.Join(dir, "app.apk")
	if err := os.WriteFile(apk, []byte("fake"), 0644); err != nil {
		t.Fatal(err)
	}
	secret := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(secret, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	// 非apk拒绝
	if err := service.Delete("note.txt"); err == nil {
		t.Error("非 .apk 文件应被拒绝")
	}

	// 路径穿越拒绝
	if err := service.Delete("../escape.apk"); err == nil {
		t.Error("downloads 目录之外的路径应被拒绝")
	}

	// 不存在报NotFound
	if err := service.Delete("missing.apk"); err == nil {
		t.Error("不存在的文件应报错")
	} else if !errorc.IsNotFound(err) {
		t.Errorf("应是NotFound错误: %v", err)
	}

	if err := service.Delete("app.apk"); err != nil {
		t.Fatalf("删除apk失败: %v", err)
	}
	if _, err := os.Stat(apk); !os.IsNotExist(err) {
		t.Error("删除后文件应不存在")
	}
	if _, err := os.Stat(secret); err != nil {
		t.Error("其他文件不应受影响")
	}
}
