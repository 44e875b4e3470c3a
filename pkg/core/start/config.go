package start

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"brandkit/pkg/core/logger"
	"brandkit/pkg/oss"
)

type Config struct {
	AppName string `yaml:"app-name"`
	Env     string `yaml:"env"`
	Port    int    `yaml:"port"`

	// Dirs 工作目录配置，留空的项取默认值
	Dirs       DirConfig        `yaml:"dirs"`
	Bundletool BundletoolConfig `yaml:"bundletool"`
	Pgyer      PgyerConfig      `yaml:"pgyer"`
	Push       PushConfig       `yaml:"push"`
	Oss        oss.Config       `yaml:"oss"`
}

type DirConfig struct {
	// Project uni-app工程根目录，优先级：配置 < MP_PROJECT_PATH环境变量
	Project   string `yaml:"project"`
	AppConfig string `yaml:"app-config"`
	Downloads string `yaml:"downloads"`
	Tmp       string `yaml:"tmp"`
}

type BundletoolConfig struct {
	// Jar bundletool的兜底jar路径，品牌集目录下的jar优先
	Jar string `yaml:"jar"`
}

type PgyerConfig struct {
	ApiKey string `yaml:"api-key"`
}

type PushConfig struct {
	// Gateway uniCloud推送云函数地址
	Gateway string `yaml:"gateway"`
}

type Configures struct {
	Config Config
	Logger *logger.Log
}

func NewConfigures(file []byte, env string) *Configures {
	var cfg Config
	err := yaml.Unmarshal(file, &cfg)
	if err != nil {
		panic(fmt.Sprintf("读取文件信息失败，因为%v", err))
	}

	cfg.Env = env
	fillDirDefaults(&cfg)

	c := &Configures{
		Config: cfg,
		Logger: logger.InitLogger("debug"),
	}

	return c
}

func fillDirDefaults(cfg *Config) {
	if p := os.Getenv("MP_PROJECT_PATH"); p != "" {
		cfg.Dirs.Project = p
	}
	if cfg.Dirs.Project == "" {
		cfg.Dirs.Project, _ = os.Getwd()
	}
	if cfg.Dirs.AppConfig == "" {
		cfg.Dirs.AppConfig = filepath.Join(cfg.Dirs.Project, "appConfig")
	}
	if cfg.Dirs.Downloads == "" {
		cfg.Dirs.Downloads = filepath.Join(cfg.Dirs.Project, "downloads")
	}
	if cfg.Dirs.Tmp == "" {
		cfg.Dirs.Tmp = filepath.Join(os.TempDir(), "brandkit")
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
}

func (c *Configures) EnableOss() *oss.AliyunService {
	if c.Config.Oss.Bucket == "" {
		return nil
	}
	service, err := oss.NewAliyunService(&c.Config.Oss)
	if err != nil {
		c.Logger.WithErr(err).Warn("初始化OSS服务失败，跳过CDN上传")
		return nil
	}
	return service
}
