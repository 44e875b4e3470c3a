package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
)

// DownloadService downloads目录下产物的管理
type DownloadService struct {
	downloadsDir string
	log          *logger.Log
	err          *errorc.ErrorBuilder
}

// NewDownloadService 创建产物管理服务
func NewDownloadService(downloadsDir string, log *logger.Log) *DownloadService {
	return &DownloadService{
		downloadsDir: downloadsDir,
		log:          log.WithEntryName("DownloadService"),
		err:          errorc.NewErrorBuilder("DownloadService"),
	}
}

// Delete 删除downloads目录下的apk产物。
// 只允许删.apk，路径限定在downloads目录内。
func (s *DownloadService) Delete(filename string) error {
	if !strings.HasSuffix(strings.ToLower(filename), ".apk") {
		return s.err.New("只允许删除 .apk 文件", nil).ValidWithCtx()
	}

	fullPath := filepath.Clean(filepath.Join(s.downloadsDir, filename))
	rel, err := filepath.Rel(s.downloadsDir, fullPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return s.err.New("非法的文件路径", nil).ValidWithCtx()
	}

	if _, err := os.Stat(fullPath); err != nil {
		return s.err.New(fmt.Sprintf("文件不存在: %s", filename), err).NotFound()
	}
	if err := os.Remove(fullPath); err != nil {
		return s.err.New("删除文件失败", err)
	}
	s.log.Infof("已删除产物: %s", filename)
	return nil
}
