package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/realwork/site/internal/config"
	"github.com/realwork/site/internal/db"
	"github.com/realwork/site/internal/service"
)

func main() {
	siteName := flag.String("site-name", "", "站点名称，留空则不写入 SEO 默认值")
	titleTemplate := flag.String("title-template", "%s | Realwork", "标题模板，最多包含一个 %s")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("加载 .env 失败: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("读取配置失败:", err)
	}

	// 初始化数据库
	gdb, err := db.Open(db.Options{Driver: cfg.DatabaseDriver, DSN: cfg.DatabaseDSN})
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}
	defer db.Close(gdb)

	ctx := context.Background()
	if err := service.NewPageService(gdb).SeedDefaults(ctx); err != nil {
		log.Fatal("写入默认页面失败:", err)
	}
	fmt.Printf("默认页面已就绪，共 %d 个\n", len(service.DefaultPages()))

	if *siteName == "" {
		return
	}

	settingsSvc := service.NewSeoSettingsService(gdb)
	current, err := settingsSvc.GetDefaults(ctx)
	if err != nil {
		log.Fatal("读取 SEO 默认值失败:", err)
	}
	if current.SiteName != "" {
		fmt.Println("SEO 默认值已存在，无需初始化")
		return
	}

	if _, err := settingsSvc.UpsertDefaults(ctx, service.SeoSettingsInput{
		SiteName:      siteName,
		TitleTemplate: titleTemplate,
	}); err != nil {
		log.Fatal("写入 SEO 默认值失败:", err)
	}
	fmt.Println("SEO 默认值初始化成功")
}
