package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Mrkivi24/onlycats/internal/config"
	"github.com/Mrkivi24/onlycats/internal/consts"
	"github.com/Mrkivi24/onlycats/internal/db"
	"github.com/Mrkivi24/onlycats/internal/di"
	"github.com/Mrkivi24/onlycats/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	flag.Parse()

	if err := config.InitConfig(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()
	logger.Init(cfg.Server.Mode, cfg.Log.Level)

	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		if err := checkSecurePath(cfg.Upload.Path); err != nil {
			log.Fatal().Err(err).Msg("❌ 安全配置错误")
		}
	}

	gormDB, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ 数据库初始化失败")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warn().Err(err).Msg("关闭数据库失败")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := di.InitializeApplication(ctx, cfg, gormDB)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ 应用初始化失败")
	}
	defer cleanup()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	applyTrustedProxies(r, cfg.Server.TrustedProxies)
	app.Router.Init(r)

	// 导出模式
	if *exportRoutes {
		if err := exportAPI(r, "routes.json"); err != nil {
			log.Fatal().Err(err).Msg("❌ 导出路由失败")
		}
		fmt.Println("✅ 路由已成功导出到 routes.json")
		return
	}

	app.Modules.Sweeper.Start(ctx, cfg.Storage.SweepInterval)

	// 打印启动欢迎语
	printWelcomeMessage(cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// 服务连接
		log.Info().Str("port", cfg.Server.Port).Msg("🚀 服务启动成功")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("❌ 服务启动失败")
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	<-ctx.Done()
	log.Info().Msg("🛑 正在关闭服务...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ 服务强制关闭")
	}
	log.Info().Msg("✅ 服务已退出")
}

func printWelcomeMessage(cfg config.Config) {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🐱  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  后端版本 : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🗄️  数据库   : %s\n", cfg.Database.Type)
	fmt.Printf(" │   🖼️  存储驱动 : %s\n", cfg.Storage.Driver)
	fmt.Printf(" │   🔥  服务端口 : %s\n", cfg.Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine, filename string) error {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	exportList := make([]RouteInfo, 0, len(routes))
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	data, err := json.MarshalIndent(exportList, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// splitTrustedProxyList 拆分逗号、分号或空白分隔的代理列表。
func splitTrustedProxyList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
}

// applyTrustedProxies 为空时不信任任何代理，ClientIP 取连接地址；
// 列表无效时同样回退为不信任。
func applyTrustedProxies(r *gin.Engine, entries []string) {
	var proxies []string
	for _, entry := range entries {
		proxies = append(proxies, splitTrustedProxyList(entry)...)
	}
	if len(proxies) == 0 {
		_ = r.SetTrustedProxies(nil)
		return
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		log.Warn().Err(err).Strs("proxies", proxies).Msg("⚠️ trusted_proxies 配置无效，已禁用代理信任")
		_ = r.SetTrustedProxies(nil)
	}
}

// checkSecurePath 拒绝把项目根目录或源码目录作为静态资源目录。
func checkSecurePath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("路径解析失败: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("无法获取当前工作目录: %w", err)
	}

	// 检查是否直接指向项目根目录
	if absPath == cwd {
		return fmt.Errorf("静态资源目录 '%s' 不能设置为项目根目录", path)
	}

	rel, err := filepath.Rel(cwd, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		// 位于工作目录之外，由部署方负责
		return nil
	}

	// 只有位于这些目录下的路径才被允许作为静态资源目录
	allowedDirs := []string{"uploads", "public", "assets", "static", "tmp"}
	firstComponent := strings.Split(filepath.ToSlash(rel), "/")[0]
	for _, allowed := range allowedDirs {
		if strings.EqualFold(firstComponent, allowed) {
			return nil
		}
	}
	return fmt.Errorf("静态资源目录 '%s' 必须位于安全子目录中 (如 %v)", path, allowedDirs)
}
