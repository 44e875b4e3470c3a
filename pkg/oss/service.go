package oss

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
)

// AliyunService 阿里云OSS服务实现，打包产物的CDN分发走这里
type AliyunService struct {
	config *Config
	client *oss.Client
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewAliyunService 创建阿里云OSS服务实例
func NewAliyunService(config *Config) (*AliyunService, error) {
	log := logger.GetLogger().WithEntryName("AliyunOSSService")
	errBuilder := errorc.NewErrorBuilder("AliyunOSSService")

	if config.AccessKeyID == "" || config.AccessKeySecret == "" || config.Bucket == "" {
		return nil, errBuilder.New("阿里云配置不完整", nil).ValidWithCtx().ToLog(log.Entry)
	}

	provider := credentials.NewStaticCredentialsProvider(config.AccessKeyID, config.AccessKeySecret, "")
	cfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithRegion(config.Region)

	if config.Domain != "" {
		cfg = cfg.WithEndpoint(config.Domain).WithUseCName(true)
	}

	client := oss.NewClient(cfg)

	return &AliyunService{
		config: config,
		client: client,
		log:    log,
		err:    errBuilder,
	}, nil
}

// ObjectKey 根据文件名生成对象key
func (s *AliyunService) ObjectKey(filename string) string {
	if s.config.Prefix == "" {
		return filename
	}
	return path.Join(s.config.Prefix, filename)
}

// UploadFile 上传文件
func (s *AliyunService) UploadFile(ctx context.Context, objectKey string, reader io.Reader) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("上传文件到阿里云OSS")

	// 保证objectKey不以"/"开头
	objectKey = strings.TrimPrefix(objectKey, "/")

	request := &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(objectKey),
		Body:   reader,
	}

	_, err := s.client.PutObject(ctx, request)
	if err != nil {
		return s.err.New("上传文件到阿里云OSS失败", err).Third().WithTraceID(ctx).ToLog(s.log.Entry)
	}

	return nil
}

// GetDownloadUrl 获取带签名的下载URL
func (s *AliyunService) GetDownloadUrl(ctx context.Context, objectKey string, name string, expire time.Duration) (string, error) {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("获取阿里云文件下载URL")

	objectKey = strings.TrimPrefix(objectKey, "/")

	if expire <= 0 {
		expire = 24 * time.Hour
	}

	request := &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(objectKey),
	}
	if name != "" {
		request.ResponseContentDisposition = oss.Ptr(fmt.Sprintf("attachment;filename=%s", name))
	}
	result, err := s.client.Presign(ctx, request,
		oss.PresignExpires(expire),
	)
	if err != nil {
		return "", s.err.New("生成下载URL失败", err).Third().WithTraceID(ctx).ToLog(s.log.Entry)
	}
	return result.URL, nil
}

// DeleteFile 直接删除文件
func (s *AliyunService) DeleteFile(ctx context.Context, objectKey string) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("直接删除阿里云文件")

	objectKey = strings.TrimPrefix(objectKey, "/")

	request := &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.config.Bucket),
		Key:    oss.Ptr(objectKey),
	}

	_, err := s.client.DeleteObject(ctx, request)
	if err != nil {
		return s.err.New("删除阿里云文件失败", err).Third().WithTraceID(ctx).ToLog(s.log.Entry)
	}

	return nil
}
