package service

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brandkit/pkg/core/logger"
	"brandkit/system/brand/internal/model"
)

func newTestAssets(t *testing.T) (*AssetService, *StoreService) {
	t.Helper()
	log := logger.GetLogger()
	codec := NewCodecService(log)
	keystore := NewKeystoreService(log)
	store := NewStoreService(t.TempDir(), codec, keystore, log)
	return NewAssetService(store, log), store
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// TestAssetService_UploadLogo 测试Logo的格式与尺寸校验
func TestAssetService_UploadLogo(t *testing.T) {
	assets, store := newTestAssets(t)
	if _, err := store.Create(&model.BrandConfig{Alias: "acme"}); err != nil {
		t.Fatal(err)
	}

	// 非PNG类型拒绝
	if _, err := assets.UploadLogo("acme", "image/jpeg", pngBytes(t, 1024, 1024)); err == nil {
		t.Error("非 PNG 类型应被拒绝")
	}

	// 尺寸不对拒绝
	if _, err := assets.UploadLogo("acme", "image/png", pngBytes(t, 512, 512)); err == nil {
		t.Error("非 1024x1024 的 PNG 应被拒绝")
	}

	// 空文件拒绝
	if _, err := assets.UploadLogo("acme", "image/png", nil); err == nil {
		t.Error("空文件应被拒绝")
	}

	url, err := assets.UploadLogo("acme", "image/png", pngBytes(t, 1024, 1024))
	if err != nil {
		t.Fatalf("上传Logo失败: %v", err)
	}
	if !strings.Contains(url, "/appConfig/acme/logo.png") {
		t.Errorf("Logo URL 错误: %s", url)
	}

	exists, _, err := assets.GetLogo("acme")
	if err != nil || !exists {
		t.Error("上传后Logo应存在")
	}

	// 删除幂等
	if err := assets.DeleteLogo("acme"); err != nil {
		t.Fatalf("删除Logo失败: %v", err)
	}
	if err := assets.DeleteLogo("acme"); err != nil {
		t.Errorf("重复删除应幂等: %v", err)
	}
}

// TestAssetService_CertSlots 测试p12/mobileprovision槽位的固定文件名与扩展名校验
func TestAssetService_CertSlots(t *testing.T) {
	assets, store := newTestAssets(t)
	if _, err := store.Create(&model.BrandConfig{Alias: "acme"}); err != nil {
		t.Fatal(err)
	}

	if err := assets.UploadCertSlot("acme", "cert.pem", ".p12", P12FileName, []byte("data")); err == nil {
		t.Error("扩展名不对应被拒绝")
	}

	if err := assets.UploadCertSlot("acme", "my-cert.p12", ".p12", P12FileName, []byte("data")); err != nil {
		t.Fatalf("上传p12失败: %v", err)
	}

	info, err := assets.GetCertSlot("acme", P12FileName)
	if err != nil {
		t.Fatalf("查询p12失败: %v", err)
	}
	if !info.Exists {
		t.Error("上传后槽位应存在")
	}

	folderName, _ := store.ResolveAlias("acme")
	slotPath := filepath.Join(store.BrandDir(folderName), CertSubDir, P12FileName)
	if _, err := os.Stat(slotPath); err != nil {
		t.Error("槽位文件应落在 certificate/prod 下并用固定名")
	}

	if err := assets.DeleteCertSlot("acme", P12FileName); err != nil {
		t.Fatalf("删除p12失败: %v", err)
	}
	if err := assets.DeleteCertSlot("acme", P12FileName); err != nil {
		t.Errorf("重复删除应幂等: %v", err)
	}
}

// TestAssetService_OtherFiles 测试other槽位的转写存储与路径限制
func TestAssetService_OtherFiles(t *testing.T) {
	assets, store := newTestAssets(t)
	if _, err := store.Create(&model.BrandConfig{Alias: "acme"}); err != nil {
		t.Fatal(err)
	}

	saved, err := assets.UploadOther("acme", "应用 配置(1).json", []byte("{}"))
	if err != nil {
		t.Fatalf("上传文件失败: %v", err)
	}
	for _, r := range saved {
		if r > 127 {
			t.Errorf("存储名应是ASCII: %s", saved)
			break
		}
	}
	if !strings.HasSuffix(saved, ".json") {
		t.Errorf("扩展名应保留: %s", saved)
	}

	files, err := assets.ListOther("acme")
	if err != nil || len(files) != 1 {
		t.Fatalf("应列出1个文件: %v", err)
	}

	if err := assets.DeleteOther("acme", saved); err != nil {
		t.Fatalf("删除文件失败: %v", err)
	}
	// 幂等
	if err := assets.DeleteOther("acme", saved); err != nil {
		t.Errorf("重复删除应幂等: %v", err)
	}

	// 穿越形式的文件名会被转写中和，不能碰到other目录之外的文件
	if err := assets.DeleteOther("acme", "../../index.ts"); err != nil {
		t.Errorf("转写后的删除不应报错: %v", err)
	}
	folderName, _ := store.ResolveAlias("acme")
	if _, err := os.Stat(filepath.Join(store.BrandDir(folderName), ConfigFileName)); err != nil {
		t.Error("品牌配置文件不应被穿越删除")
	}
}

// TestSanitizeFilename 测试文件名转写
func TestSanitizeFilename(t *testing.T) {
	cases := []string{"report.pdf", "my file.txt", "价格表.xlsx", "a___b.txt", "(1).png"}
	for _, in := range cases {
		got := SanitizeFilename(in)
		// 汉字转写结果依赖拼音库输出，验证关键性质
		if strings.ContainsAny(got, " ()") {
			t.Errorf("%q 转写结果仍含非法字符: %q", in, got)
		}
		if got == "" {
			t.Errorf("%q 转写结果为空", in)
		}
		for _, r := range got {
			if r > 127 {
				t.Errorf("%q 转写结果应是ASCII: %q", in, got)
			}
		}
		if strings.Contains(got, "--") {
			t.Errorf("%q 转写结果不应有连续连字符: %q", in, got)
		}
	}

	if got := SanitizeFilename("report.pdf"); got != "report.pdf" {
		t.Errorf("常规文件名应原样保留: %q", got)
	}
	if got := SanitizeFilename("my file.txt"); got != "my-file.txt" {
		t.Errorf("空格应折叠成连字符: %q", got)
	}

	if got := SanitizeFilename("价格表.xlsx"); !strings.Contains(got, "jia") {
		t.Errorf("汉字应转成拼音: %q", got)
	}
}

// TestRecoverFilename 测试Latin-1乱码文件名恢复
func TestRecoverFilename(t *testing.T) {
	original := "报表.xlsx"
	// 模拟UTF-8字节被逐字节按Latin-1解码
	var garbled strings.Builder
	for _, b := range []byte(original) {
		garbled.WriteRune(rune(b))
	}

	if got := RecoverFilename(garbled.String()); got != original {
		t.Errorf("乱码恢复失败: %q", got)
	}

	// 正常文件名保持不变
	if got := RecoverFilename("report.pdf"); got != "report.pdf" {
		t.Errorf("纯ASCII文件名不应被改动: %q", got)
	}
	if got := RecoverFilename(original); got != original {
		t.Errorf("正常UTF-8文件名不应被改动: %q", got)
	}
}
