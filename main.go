package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/middleware"
	"github.com/linqiu919/ldc-store/internal/pkg/banner"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/pkg/logger"
	"github.com/linqiu919/ldc-store/internal/router"
	"github.com/linqiu919/ldc-store/internal/service"
)

// 版本信息，编译时通过 ldflags 设置
var (
	Version    = "v0.1.0"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "LDC Store API Server",
		Usage:   "LDC积分发卡商店后端服务",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configPath := cmd.String("config")

			// 如果未指定配置文件，尝试从默认位置加载
			if configPath == "" {
				possiblePaths := []string{
					"config.yaml",
					filepath.Join("config", "config.yaml"),
				}
				for _, path := range possiblePaths {
					if _, err := os.Stat(path); err == nil {
						configPath = path
						break
					}
				}
				if configPath == "" {
					return fmt.Errorf("未指定配置文件且未找到默认配置文件(config.yaml或config/config.yaml)")
				}
			}

			// 将配置文件路径设置到环境变量中，供config包读取
			os.Setenv("CONFIG_PATH", configPath)

			return startApp()
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("应用程序启动失败: %v", err)
	}
}

// startApp 启动应用程序的主要逻辑
func startApp() error {
	banner.Print(Version, CommitHash, BuildTime)

	// 加载配置
	_, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %v", err)
	}

	// 初始化日志系统
	if err := logger.Setup(); err != nil {
		return fmt.Errorf("初始化日志系统失败: %v", err)
	}
	logger.Info("配置加载完成")

	// 初始化数据库
	if err := database.Setup(); err != nil {
		return fmt.Errorf("数据库初始化失败: %v", err)
	}
	logger.Info("数据库初始化完成")

	// 按配置选定退款结算策略
	service.Refund.Setup()
	logger.Infof("退款模式: %s", service.Refund.Mode())

	// 设置gin模式
	gin.SetMode(config.GlobalConfig.Server.Mode)

	// 初始化路由（不使用默认中间件）
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())

	router.SetupRoutes(r)
	logger.Info("路由设置完成")

	// 启动服务器
	logger.Infof("服务器启动中，端口: %s", config.GlobalConfig.Server.Port)
	if err := r.Run(":" + config.GlobalConfig.Server.Port); err != nil {
		return fmt.Errorf("服务器启动失败: %v", err)
	}
	return nil
}
