package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"brandkit/app"
	"brandkit/base"
	"brandkit/pkg/core/start"
	"brandkit/router"
)

func main() {
	env, filename := getBaseInfo()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = env
	base.OSS = configures.EnableOss()

	// 创建应用组合根
	appRoot := app.NewApp()

	// 创建 Fiber 应用
	fiberApp := app.GetApp()

	// 注册路由
	router.Register(appRoot, fiberApp)

	// 静态托管品牌素材和打包产物
	fiberApp.Static("/appConfig", base.Configures.Config.Dirs.AppConfig)
	fiberApp.Static("/downloads", base.Configures.Config.Dirs.Downloads)

	// 优雅关闭：等待信号后停掉所有进行中的构建再退出
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		base.Logger.Info("收到退出信号，开始关闭")
		appRoot.BuildModule.Shutdown()
		_ = fiberApp.Shutdown()
	}()

	if err := fiberApp.Listen(fmt.Sprintf(":%d", base.Configures.Config.Port)); err != nil {
		log.Fatal(err)
	}
	base.Logger.Info("已退出")
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	// 解析命令行参数
	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}
