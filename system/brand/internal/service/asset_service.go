package service

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-pinyin"

	errorc "brandkit/pkg/core/err"
	"brandkit/pkg/core/logger"
)

const (
	// MaxUploadSize 单个上传文件上限
	MaxUploadSize = 5 * 1024 * 1024
	// LogoSize logo要求的边长
	LogoSize = 1024
	// P12FileName p12槽位固定文件名
	P12FileName = "app.p12"
	// MobileprovisionFileName 描述文件槽位固定文件名
	MobileprovisionFileName = "app.mobileprovision"
	// OtherSubDir 杂项文件目录
	OtherSubDir = "other"
)

// SlotInfo 固定槽位文件信息
type SlotInfo struct {
	Exists     bool   `json:"exists"`
	Filename   string `json:"filename,omitempty"`
	Size       int64  `json:"size,omitempty"`
	UploadedAt int64  `json:"uploadedAt,omitempty"`
}

// OtherFileInfo 杂项文件信息
type OtherFileInfo struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadedAt int64  `json:"uploadedAt"`
}

// AssetService 品牌素材槽位服务
// logo/p12/mobileprovision是固定名槽位，上传即覆盖；other目录存任意文件
type AssetService struct {
	store *StoreService
	log   *logger.Log
	err   *errorc.ErrorBuilder
}

// NewAssetService 创建品牌素材服务
func NewAssetService(store *StoreService, log *logger.Log) *AssetService {
	return &AssetService{
		store: store,
		log:   log.WithEntryName("BrandAssetService"),
		err:   errorc.NewErrorBuilder("BrandAssetService"),
	}
}

// checkSize 上传大小检查
func (s *AssetService) checkSize(data []byte) error {
	if len(data) > MaxUploadSize {
		return s.err.New("文件过大，请确保文件小于 5MB", nil).ValidWithCtx()
	}
	return nil
}

// UploadLogo 上传logo，要求PNG且正好1024x1024
func (s *AssetService) UploadLogo(alias, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", s.err.New("请选择要上传的图片", nil).ValidWithCtx()
	}
	if contentType != "image/png" {
		return "", s.err.New("Logo 必须是 PNG 格式", nil).ValidWithCtx()
	}
	if err := s.checkSize(data); err != nil {
		return "", err
	}

	cfg, decodeErr := png.DecodeConfig(bytes.NewReader(data))
	if decodeErr != nil {
		return "", s.err.New("Logo 不是有效的 PNG 文件", decodeErr).ValidWithCtx()
	}
	if cfg.Width != LogoSize || cfg.Height != LogoSize {
		return "", s.err.New(fmt.Sprintf("Logo 尺寸必须是 1024x1024，当前尺寸：%dx%d", cfg.Width, cfg.Height), nil).ValidWithCtx()
	}

	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return "", err
	}

	logoPath := filepath.Join(s.store.BrandDir(folderName), LogoFileName)
	if err := os.WriteFile(logoPath, data, 0644); err != nil {
		return "", s.err.New("保存 Logo 失败", err)
	}

	s.log.WithBrand(alias).Info("Logo 上传成功")
	return fmt.Sprintf("/appConfig/%s/%s", folderName, LogoFileName), nil
}

// DeleteLogo 删除logo，不存在不算错
func (s *AssetService) DeleteLogo(alias string) error {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return err
	}

	logoPath := filepath.Join(s.store.BrandDir(folderName), LogoFileName)
	if err := os.Remove(logoPath); err != nil && !os.IsNotExist(err) {
		return s.err.New("删除 Logo 失败", err)
	}
	return nil
}

// GetLogo 查询logo是否存在
func (s *AssetService) GetLogo(alias string) (exists bool, url string, err error) {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return false, "", err
	}

	logoPath := filepath.Join(s.store.BrandDir(folderName), LogoFileName)
	if _, statErr := os.Stat(logoPath); statErr != nil {
		return false, "", nil
	}
	return true, fmt.Sprintf("/appConfig/%s/%s", folderName, LogoFileName), nil
}

// slotPath 证书槽位完整路径
func (s *AssetService) slotPath(folderName, slotFile string) string {
	return filepath.Join(s.store.BrandDir(folderName), filepath.FromSlash(CertSubDir), slotFile)
}

// UploadCertSlot 上传证书槽位文件（p12/mobileprovision），固定重命名后覆盖保存
func (s *AssetService) UploadCertSlot(alias, originalName, requiredExt, slotFile string, data []byte) error {
	if len(data) == 0 {
		return s.err.New(fmt.Sprintf("请选择要上传的 %s 文件", requiredExt), nil).ValidWithCtx()
	}
	if !strings.HasSuffix(strings.ToLower(originalName), requiredExt) {
		return s.err.New(fmt.Sprintf("文件必须是 %s 格式", requiredExt), nil).ValidWithCtx()
	}
	if err := s.checkSize(data); err != nil {
		return err
	}

	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return err
	}

	certDir := filepath.Join(s.store.BrandDir(folderName), filepath.FromSlash(CertSubDir))
	if err := os.MkdirAll(certDir, 0755); err != nil {
		return s.err.New("创建证书目录失败", err)
	}

	if err := os.WriteFile(s.slotPath(folderName, slotFile), data, 0644); err != nil {
		return s.err.New("保存证书文件失败", err)
	}

	s.log.WithBrand(alias).WithField("slot", slotFile).Info("证书文件上传成功")
	return nil
}

// DeleteCertSlot 删除证书槽位文件，不存在不算错
func (s *AssetService) DeleteCertSlot(alias, slotFile string) error {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return err
	}

	if err := os.Remove(s.slotPath(folderName, slotFile)); err != nil && !os.IsNotExist(err) {
		return s.err.New("删除证书文件失败", err)
	}
	return nil
}

// GetCertSlot 查询证书槽位文件信息
func (s *AssetService) GetCertSlot(alias, slotFile string) (*SlotInfo, error) {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return nil, err
	}

	stat, statErr := os.Stat(s.slotPath(folderName, slotFile))
	if statErr != nil {
		return &SlotInfo{Exists: false}, nil
	}
	return &SlotInfo{
		Exists:     true,
		Filename:   slotFile,
		Size:       stat.Size(),
		UploadedAt: stat.ModTime().UnixMilli(),
	}, nil
}

// UploadOther 上传杂项文件
// 文件名先做乱码恢复再转成ASCII安全形式，避免不同系统的编码不一致
func (s *AssetService) UploadOther(alias, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", s.err.New("请选择要上传的文件", nil).ValidWithCtx()
	}
	if err := s.checkSize(data); err != nil {
		return "", err
	}

	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return "", err
	}

	safeName := SanitizeFilename(RecoverFilename(filename))
	if safeName == "" {
		return "", s.err.New("文件名不合法", nil).ValidWithCtx()
	}

	otherDir := filepath.Join(s.store.BrandDir(folderName), OtherSubDir)
	if err := os.MkdirAll(otherDir, 0755); err != nil {
		return "", s.err.New("创建 other 目录失败", err)
	}

	if err := os.WriteFile(filepath.Join(otherDir, safeName), data, 0644); err != nil {
		return "", s.err.New("保存文件失败", err)
	}

	s.log.WithBrand(alias).WithField("filename", safeName).Info("文件上传成功")
	return safeName, nil
}

// ListOther 列出杂项文件
func (s *AssetService) ListOther(alias string) ([]*OtherFileInfo, error) {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return nil, err
	}

	otherDir := filepath.Join(s.store.BrandDir(folderName), OtherSubDir)
	entries, readErr := os.ReadDir(otherDir)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return []*OtherFileInfo{}, nil
		}
		return nil, s.err.New("读取 other 目录失败", readErr)
	}

	files := make([]*OtherFileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, &OtherFileInfo{
			Filename:   entry.Name(),
			Size:       info.Size(),
			UploadedAt: info.ModTime().UnixMilli(),
		})
	}
	return files, nil
}

// DeleteOther 删除杂项文件
// 解析后的目标必须仍在品牌other目录内，防止通过文件名参数穿越
func (s *AssetService) DeleteOther(alias, filename string) error {
	folderName, err := s.store.ResolveAlias(alias)
	if err != nil {
		return err
	}

	otherDir := filepath.Join(s.store.BrandDir(folderName), OtherSubDir)
	safeName := SanitizeFilename(RecoverFilename(filename))

	target := filepath.Clean(filepath.Join(otherDir, safeName))
	rel, relErr := filepath.Rel(filepath.Clean(otherDir), target)
	if relErr != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == "." {
		return s.err.New("文件名不合法", nil).ValidWithCtx()
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return s.err.New("删除文件失败", err)
	}
	return nil
}

// RecoverFilename 恢复被按Latin-1误解码的UTF-8文件名
// multipart文件名常见这种乱码：原始UTF-8字节被逐字节当作Latin-1读进来
func RecoverFilename(name string) string {
	raw := make([]byte, 0, len(name))
	for _, r := range name {
		if r > 0xFF {
			// 已经含有正经的非Latin-1字符，不是乱码
			return name
		}
		raw = append(raw, byte(r))
	}
	if utf8.Valid(raw) && utf8.RuneCount(raw) < len(raw) {
		return string(raw)
	}
	return name
}

var hyphenRuns = regexp.MustCompile(`-{2,}`)

// SanitizeFilename 将文件名转成ASCII安全形式
// 汉字转拼音，其余非常规字符折叠成单个连字符，扩展名保留
func SanitizeFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	args := pinyin.NewArgs()
	var builder strings.Builder
	for _, r := range base {
		switch {
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'):
			builder.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			if py := pinyin.SinglePinyin(r, args); len(py) > 0 {
				builder.WriteByte('-')
				builder.WriteString(py[0])
				builder.WriteByte('-')
			} else {
				builder.WriteByte('-')
			}
		default:
			builder.WriteByte('-')
		}
	}

	safe := hyphenRuns.ReplaceAllString(builder.String(), "-")
	safe = strings.Trim(safe, "-")
	if safe == "" && ext == "" {
		return ""
	}

	// 扩展名里也可能藏非ASCII字符
	safeExt := strings.Map(func(r rune) rune {
		if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.') {
			return r
		}
		return -1
	}, ext)

	return safe + safeExt
}
