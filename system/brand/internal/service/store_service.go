package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

const (
	// ConfigFileName 品牌配置文件名
	ConfigFileName = "index.ts"
	// LogoFileName logo槽位固定文件名
	LogoFileName = "logo.png"
	// CertSubDir 证书目录
	CertSubDir = "certificate/prod"
)

// certReadme 证书目录说明，创建品牌时写入
const certReadme = `# 证书文件说明

请将以下文件放置在此目录：

1. **app.p12** - iOS 发布证书
2. **app.mobileprovision** - iOS 描述文件

## 获取证书步骤

1. 登录 [Apple Developer](https://developer.apple.com/)
2. 创建 App ID 和证书
3. 下载证书和描述文件
4. 将文件重命名为上述名称并放置在此目录

详细文档: https://developer.apple.com/documentation/xcode/managing-your-team-s-signing-assets
`

var aliasPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// StoreService 品牌目录仓库
// appConfig下一个品牌一个目录，目录名是主键，配置里的aliasname允许与目录名不同
type StoreService struct {
	rootDir  string
	codec    *CodecService
	keystore *KeystoreService
	log      *logger.Log
	err      *errorc.ErrorBuilder
}

// NewStoreService 创建品牌目录仓库
func NewStoreService(rootDir string, codec *CodecService, keystore *KeystoreService, log *logger.Log) *StoreService {
	return &StoreService{
		rootDir:  rootDir,
		codec:    codec,
		keystore: keystore,
		log:      log.WithEntryName("BrandStoreService"),
		err:      errorc.NewErrorBuilder("BrandStoreService"),
	}
}

// RootDir appConfig根目录
func (s *StoreService) RootDir() string {
	return s.rootDir
}

// BrandDir 品牌目录完整路径
func (s *StoreService) BrandDir(folderName string) string {
	return filepath.Join(s.rootDir, folderName)
}

// ValidateAlias 校验别名可以安全用作目录名
func (s *StoreService) ValidateAlias(alias string) error {
	if alias == "" {
		return s.err.New("缺少必填字段: alias", nil).ValidWithCtx()
	}
	if !aliasPattern.MatchString(alias) {
		return s.err.New("alias 只能包含字母、数字、-、_ 字符", nil).ValidWithCtx()
	}
	return nil
}

// listDirs 列出品牌目录名，排好序保证遍历顺序稳定
func (s *StoreService) listDirs() ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, s.err.New("读取appConfig目录失败", err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// creationTime 品牌创建时间。
// 配置文件每次Update都会重写，目录mtime也随素材写入变化，
// 证书README创建后不再改动，优先拿它当创建时间锚点
func (s *StoreService) creationTime(brandDir string) int64 {
	if info, err := os.Stat(filepath.Join(brandDir, filepath.FromSlash(CertSubDir), "README.md")); err == nil {
		return info.ModTime().UnixMilli()
	}
	if info, err := os.Stat(brandDir); err == nil {
		return info.ModTime().UnixMilli()
	}
	return 0
}

// List 列出所有品牌
// 单个品牌解析失败只降级该条目，不影响整体列表
func (s *StoreService) List() ([]*model.BrandSummary, error) {
	dirs, err := s.listDirs()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.BrandSummary, 0, len(dirs))
	for _, dir := range dirs {
		brandDir := s.BrandDir(dir)
		indexPath := filepath.Join(brandDir, ConfigFileName)

		if _, statErr := os.Stat(indexPath); statErr != nil {
			continue
		}

		summary := &model.BrandSummary{
			Alias:      dir,
			FolderName: dir,
			Path:       brandDir,
			CreatedAt:  s.creationTime(brandDir),
		}

		content, readErr := os.ReadFile(indexPath)
		if readErr != nil {
			s.log.WithBrand(dir).WithErr(readErr).Error("解析品牌配置失败")
		} else {
			cfg := s.codec.Parse(string(content))
			if strings.TrimSpace(cfg.Alias) != "" {
				summary.Alias = cfg.Alias
			}
			summary.AppDescription = cfg.AppDescription
			summary.AppName = cfg.AppName
			summary.AppEnName = cfg.AppEnName
			summary.BaseUrlRegion = cfg.BaseUrlRegion
			summary.DcAppId = cfg.DcAppId
			summary.Packagename = cfg.Packagename
			summary.IosAppId = cfg.IosAppId
			summary.AppLinksuffix = cfg.AppLinksuffix
			summary.Schemes = cfg.Schemes
			summary.Urltypes = cfg.Urltypes
			summary.TeamId = cfg.TeamId
			summary.CorporationId = cfg.CorporationId
			summary.ExtAppId = cfg.ExtAppId
			summary.IosApplinksDomain = cfg.IosApplinksDomain
			summary.AndroidStoreUrl = model.AndroidStoreURL(cfg.Packagename)
		}

		if _, logoErr := os.Stat(filepath.Join(brandDir, LogoFileName)); logoErr == nil {
			summary.LogoExists = true
		}

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// ResolveAlias 别名解析为目录名
// 配置里的aliasname或目录名命中都算，目录按字典序遍历保证结果确定
func (s *StoreService) ResolveAlias(alias string) (string, error) {
	dirs, err := s.listDirs()
	if err != nil {
		return "", err
	}

	for _, dir := range dirs {
		indexPath := filepath.Join(s.BrandDir(dir), ConfigFileName)
		content, readErr := os.ReadFile(indexPath)
		if readErr == nil {
			cfg := s.codec.Parse(string(content))
			if cfg.Alias == alias || dir == alias {
				return dir, nil
			}
		} else if dir == alias {
			return dir, nil
		}
	}

	return "", s.err.New(fmt.Sprintf("品牌配置不存在: %s", alias), nil).NotFound()
}

// scaffold 创建品牌目录骨架（证书目录+README）
func (s *StoreService) scaffold(brandDir string) error {
	certDir := filepath.Join(brandDir, filepath.FromSlash(CertSubDir))
	if err := os.MkdirAll(certDir, 0755); err != nil {
		return s.err.New("创建品牌目录失败", err)
	}
	if err := os.WriteFile(filepath.Join(certDir, "README.md"), []byte(certReadme), 0644); err != nil {
		return s.err.New("写入证书README失败", err)
	}
	return nil
}

// checkNotExists 建目录前的占用检查，目录名和已有品牌的别名都不能撞
func (s *StoreService) checkNotExists(alias string) error {
	if _, err := os.Stat(s.BrandDir(alias)); err == nil {
		return s.err.New(fmt.Sprintf("品牌配置 %s 已存在", alias), nil).ValidWithCtx()
	}
	if _, err := s.ResolveAlias(alias); err == nil {
		return s.err.New(fmt.Sprintf("别名 %s 已被其他品牌占用", alias), nil).ValidWithCtx()
	}
	return nil
}

// atomicWrite 临时文件写入后重命名，避免写一半的配置被读到
func (s *StoreService) atomicWrite(path string, content []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return s.err.New("写入临时文件失败", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return s.err.New("重命名临时文件失败", err)
	}
	return nil
}

// Create 创建品牌：目录骨架+index.ts+keystore
// keytool不可用时keystore降级为占位说明文件，创建依然成功
func (s *StoreService) Create(cfg *model.BrandConfig) (string, error) {
	if err := s.ValidateAlias(cfg.Alias); err != nil {
		return "", err
	}
	if err := s.checkNotExists(cfg.Alias); err != nil {
		return "", err
	}

	brandDir := s.BrandDir(cfg.Alias)
	if err := s.scaffold(brandDir); err != nil {
		return "", err
	}

	if err := s.writeConfig(brandDir, cfg); err != nil {
		return "", err
	}

	s.keystore.Generate(brandDir, cfg.Alias)

	s.log.WithBrand(cfg.Alias).Info("品牌配置创建成功")
	return brandDir, nil
}

// Update 全量重生成index.ts，不做字段级合并
func (s *StoreService) Update(alias string, cfg *model.BrandConfig) (string, error) {
	folderName, err := s.ResolveAlias(alias)
	if err != nil {
		return "", err
	}

	brandDir := s.BrandDir(folderName)
	cfg.Alias = alias
	if err := s.writeConfig(brandDir, cfg); err != nil {
		return "", err
	}

	s.log.WithBrand(alias).Info("品牌配置更新成功")
	return brandDir, nil
}

func (s *StoreService) writeConfig(brandDir string, cfg *model.BrandConfig) error {
	content, err := s.codec.Render(cfg)
	if err != nil {
		return err
	}
	return s.atomicWrite(filepath.Join(brandDir, ConfigFileName), []byte(content))
}

// Import 原样落盘调用方提供的配置内容，不经过模板
func (s *StoreService) Import(alias, content string) (string, error) {
	if err := s.ValidateAlias(alias); err != nil {
		return "", err
	}
	if content == "" {
		return "", s.err.New("缺少必填字段: content", nil).ValidWithCtx()
	}
	if err := s.checkNotExists(alias); err != nil {
		return "", err
	}

	brandDir := s.BrandDir(alias)
	if err := s.scaffold(brandDir); err != nil {
		return "", err
	}
	if err := s.atomicWrite(filepath.Join(brandDir, ConfigFileName), []byte(content)); err != nil {
		return "", err
	}

	s.log.WithBrand(alias).Info("品牌配置导入成功")
	return brandDir, nil
}

// Delete 删除整个品牌目录，不可恢复
func (s *StoreService) Delete(alias string) error {
	folderName, err := s.ResolveAlias(alias)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(s.BrandDir(folderName)); err != nil {
		return s.err.New("删除品牌目录失败", err)
	}

	s.log.WithBrand(alias).Info("品牌配置删除成功")
	return nil
}

// ReadRaw 读取index.ts原文
func (s *StoreService) ReadRaw(alias string) (folderName, content string, err error) {
	folderName, err = s.ResolveAlias(alias)
	if err != nil {
		return "", "", err
	}

	bytes, readErr := os.ReadFile(filepath.Join(s.BrandDir(folderName), ConfigFileName))
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return "", "", s.err.New("配置不存在", readErr).NotFound()
		}
		return "", "", s.err.New("读取配置文件失败", readErr)
	}
	return folderName, string(bytes), nil
}

// ReadParsed 读取并解析品牌配置
func (s *StoreService) ReadParsed(alias string) (*model.BrandConfig, error) {
	folderName, content, err := s.ReadRaw(alias)
	if err != nil {
		return nil, err
	}

	cfg := s.codec.Parse(content)
	if strings.TrimSpace(cfg.Alias) == "" {
		cfg.Alias = alias
	}
	cfg.FolderName = folderName
	return cfg, nil
}

var (
	versionNamePattern        = regexp.MustCompile(`(versionName:\s*['"])[^'"]*(['"])`)
	androidVersionCodePattern = regexp.MustCompile(`(androidVersionCode:\s*['"])[^'"]*(['"])`)
	iosVersionCodePattern     = regexp.MustCompile(`(iosVersionCode:\s*['"])[^'"]*(['"])`)
)

// UpdateVersions 只替换三个版本字段，不整体重生成
// 云打包前的版本号写入走这里，避免覆盖手改的其他内容
func (s *StoreService) UpdateVersions(alias, versionName, androidVersionCode, iosVersionCode string) error {
	folderName, content, err := s.ReadRaw(alias)
	if err != nil {
		return err
	}

	updated := content
	if versionName != "" {
		updated = versionNamePattern.ReplaceAllString(updated, "${1}"+versionName+"${2}")
	}
	if androidVersionCode != "" {
		updated = androidVersionCodePattern.ReplaceAllString(updated, "${1}"+androidVersionCode+"${2}")
	}
	if iosVersionCode != "" {
		updated = iosVersionCodePattern.ReplaceAllString(updated, "${1}"+iosVersionCode+"${2}")
	}

	if updated == content {
		return nil
	}
	if err := s.atomicWrite(filepath.Join(s.BrandDir(folderName), ConfigFileName), []byte(updated)); err != nil {
		return err
	}

	s.log.WithBrand(alias).WithField("versionName", versionName).Info("版本号更新成功")
	return nil
}
