package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"brandkit/base"
	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	brandclient "brandkit/system/brand/api/client"
)

const (
	// BundletoolJarName 品牌集目录下的bundletool文件名，优先于配置里的兜底路径
	BundletoolJarName = "bundletool.jar"
	// keystorePassword 所有品牌keystore的固定口令
	keystorePassword = "123456"
	// universalApkName bundletool通用模式产物在apks压缩包里的固定名字
	universalApkName = "universal.apk"

	dumpTimeout  = 2 * time.Minute
	buildTimeout = 10 * time.Minute
)

// ConvertResult aab转apk结果
type ConvertResult struct {
	FileName    string `json:"fileName"`
	Size        int64  `json:"size"`
	DownloadUrl string `json:"downloadUrl"`
	OssUrl      string `json:"ossUrl,omitempty"`
}

// ConvertService AAB转APK流水线。
// 转换前校验包名归属，中间产物统一放在一次性暂存目录里，结束时整体删掉。
type ConvertService struct {
	brand        *brandclient.BrandClient
	appConfigDir string
	downloadsDir string
	tmpDir       string
	fallbackJar  string
	log          *logger.Log
	err          *errorc.ErrorBuilder
}

// NewConvertService 创建转换服务
func NewConvertService(brand *brandclient.BrandClient, appConfigDir, downloadsDir, tmpDir, fallbackJar string, log *logger.Log) *ConvertService {
	return &ConvertService{
		brand:        brand,
		appConfigDir: appConfigDir,
		downloadsDir: downloadsDir,
		tmpDir:       tmpDir,
		fallbackJar:  fallbackJar,
		log:          log.WithEntryName("ConvertService"),
		err:          errorc.NewErrorBuilder("ConvertService"),
	}
}

// locateBundletool 定位bundletool.jar，品牌集目录优先，回落到配置的兜底路径
func (s *ConvertService) locateBundletool() (string, error) {
	jar := filepath.Join(s.appConfigDir, BundletoolJarName)
	if _, err := os.Stat(jar); err == nil {
		return jar, nil
	}
	if s.fallbackJar != "" {
		if _, err := os.Stat(s.fallbackJar); err == nil {
			return s.fallbackJar, nil
		}
	}
	return "", s.err.New(fmt.Sprintf("bundletool.jar 不存在，请放置到 %s 或在配置里指定路径", filepath.Join(s.appConfigDir, BundletoolJarName)), nil).Unavailable()
}

// run 执行外部命令，返回合并输出
func (s *ConvertService) run(timeout time.Duration, command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(output), s.err.New(fmt.Sprintf("命令执行超时: %s", command), ctx.Err()).Unavailable()
		}
		return string(output), s.err.New(fmt.Sprintf("命令执行失败: %s\n%s", command, strings.TrimSpace(string(output))), err)
	}
	return string(output), nil
}

// dumpPackageName 从AAB清单里提取包名，尽力而为，失败不拦转换
func (s *ConvertService) dumpPackageName(jar, aabPath string) string {
	command := fmt.Sprintf("java -jar %q dump manifest --bundle %q --xpath /manifest/@package", jar, aabPath)
	output, err := s.run(dumpTimeout, command)
	if err != nil {
		s.log.WithErr(err).Warn("读取AAB包名失败，跳过包名校验")
		return ""
	}
	return strings.TrimSpace(output)
}

// verifyPackage 包名不一致时报错，并提示这个包名属于哪些品牌
func (s *ConvertService) verifyPackage(alias, expected, actual string) error {
	if actual == "" || actual == expected {
		return nil
	}

	msg := fmt.Sprintf("包名不匹配: 上传的 AAB 包名为 %s，品牌 %q 配置的包名为 %s", actual, alias, expected)
	matches, err := s.brand.BrandsByPackage(actual)
	if err != nil {
		s.log.WithErr(err).Warn("反查包名归属失败")
	} else if len(matches) > 0 {
		msg += fmt.Sprintf("，该包名属于品牌: %s", strings.Join(matches, ", "))
	}
	return s.err.New(msg, nil).ValidWithCtx()
}

// extractUniversalApk 从apks压缩包里取出universal.apk
func (s *ConvertService) extractUniversalApk(apksPath, destPath string) error {
	reader, err := zip.OpenReader(apksPath)
	if err != nil {
		return s.err.New("读取 apks 压缩包失败", err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if filepath.Base(f.Name) != universalApkName {
			continue
		}
		src, err := f.Open()
		if err != nil {
			return s.err.New("读取 universal.apk 失败", err)
		}
		defer src.Close()

		dst, err := os.Create(destPath)
		if err != nil {
			return s.err.New("写出 universal.apk 失败", err)
		}
		defer dst.Close()

		if _, err := io.Copy(dst, src); err != nil {
			return s.err.New("写出 universal.apk 失败", err)
		}
		return nil
	}
	return s.err.New("apks 压缩包里没有 universal.apk", nil)
}

// moveFile 移动文件，跨设备时退化为拷贝
func (s *ConvertService) moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return os.Remove(src)
}

// outputName 产物文件名从上传文件名推导，不用品牌别名
func outputName(uploadName string) string {
	name := filepath.Base(uploadName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		name = "app"
	}
	return name + ".apk"
}

// Convert 把上传的AAB转成可直装的APK。
// 成功时产物落在downloads目录且所有中间产物已清理；失败时不留任何产物。
func (s *ConvertService) Convert(alias, uploadName string, data []byte) (*ConvertResult, error) {
	info, err := s.brand.Info(alias)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(info.Packagename) == "" {
		return nil, s.err.New(fmt.Sprintf("品牌 %q 未配置 Android 包名 (packagename)，无法转换", alias), nil).ValidWithCtx()
	}

	keystorePath, keystoreAlias, found, err := s.brand.Keystore(alias)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, s.err.New(fmt.Sprintf("未找到品牌 %q 的 keystore 文件，请先生成", alias), nil).NotFound()
	}

	jar, err := s.locateBundletool()
	if err != nil {
		return nil, err
	}

	// 本次转换的所有中间产物都在这个目录里，结束时整目录删掉
	stageDir := filepath.Join(s.tmpDir, "aab-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return nil, s.err.New("创建暂存目录失败", err)
	}
	defer func() {
		if err := os.RemoveAll(stageDir); err != nil {
			s.log.WithErr(err).Warn("清理暂存目录失败")
		}
	}()

	aabPath := filepath.Join(stageDir, "upload.aab")
	if err := os.WriteFile(aabPath, data, 0644); err != nil {
		return nil, s.err.New("暂存上传文件失败", err)
	}

	actualPackage := s.dumpPackageName(jar, aabPath)
	if err := s.verifyPackage(alias, info.Packagename, actualPackage); err != nil {
		return nil, err
	}

	apksPath := filepath.Join(stageDir, "universal.apks")
	buildCommand := fmt.Sprintf(
		"java -jar %q build-apks --bundle=%q --output=%q --mode=universal --ks=%q --ks-pass=pass:%s --ks-key-alias=%q --key-pass=pass:%s",
		jar, aabPath, apksPath, keystorePath, keystorePassword, keystoreAlias, keystorePassword,
	)
	s.log.WithBrand(alias).Info("开始执行 bundletool build-apks")
	if _, err := s.run(buildTimeout, buildCommand); err != nil {
		return nil, err
	}

	apkPath := filepath.Join(stageDir, universalApkName)
	if err := s.extractUniversalApk(apksPath, apkPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.downloadsDir, 0755); err != nil {
		return nil, s.err.New("创建downloads目录失败", err)
	}
	fileName := outputName(uploadName)
	destPath := filepath.Join(s.downloadsDir, fileName)
	if err := s.moveFile(apkPath, destPath); err != nil {
		return nil, s.err.New("移动产物到downloads目录失败", err)
	}

	stat, err := os.Stat(destPath)
	if err != nil {
		return nil, s.err.New("读取产物信息失败", err)
	}

	result := &ConvertResult{
		FileName:    fileName,
		Size:        stat.Size(),
		DownloadUrl: "/downloads/" + fileName,
	}

	// OSS配置了就顺带传一份CDN，失败只记日志
	if base.OSS != nil {
		if ossUrl, err := s.uploadToOss(destPath, fileName); err != nil {
			s.log.WithBrand(alias).WithErr(err).Warn("上传OSS失败，仅提供本地下载")
		} else {
			result.OssUrl = ossUrl
		}
	}

	s.log.WithBrand(alias).Infof("转换完成: %s (%d bytes)", fileName, stat.Size())
	return result, nil
}

func (s *ConvertService) uploadToOss(path, fileName string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	ctx := context.Background()
	objectKey := base.OSS.ObjectKey(fileName)
	if err := base.OSS.UploadFile(ctx, objectKey, file); err != nil {
		return "", err
	}
	return base.OSS.GetDownloadUrl(ctx, objectKey, fileName, 0)
}
