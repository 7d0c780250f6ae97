package main

import (
	"fmt"
	"log"
	"os"

	api "dexflow/cmd/dexflow"
	"dexflow/conf"
	"dexflow/internal/middleware"
	"dexflow/pkg/cache"
	"dexflow/pkg/db"
	"dexflow/pkg/logger"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// 启动服务（监听webhook）

/*
测试

BODY='{"exchange":"dydx","strategy":"macd-cross-v2","market":"BTC-USD","order":"buy","position":"long","price":64000,"size":0.01,"reverse":false,"passphrase":"riddle-me-this","direction":"long"}'

curl -X POST http://localhost:12190/webhook \
  -H "Content-Type: application/json" \
  -d "$BODY"

BODY='{"exchange":"hyperliquid","strategy":"ema-trend-v1","market":"ETH-USD","order":"sell","position":"flat","price":3250,"sizeUsd":500,"reverse":false,"passphrase":"riddle-me-this"}'

curl -X POST http://localhost:12190/webhook \
  -H "Content-Type: application/json" \
  -d "$BODY"
*/

func main() {

	// .env里放数据库口令等敏感配置，不存在时忽略
	_ = godotenv.Load()

	// 加载配置文件
	err := conf.LoadConfig("conf/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)

	if pass := os.Getenv("WEBHOOK_PASSPHRASE"); pass != "" {
		appCfg.Webhook.Passphrase = pass
		conf.AppConfig.Webhook.Passphrase = pass
	}

	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	if dbUser == "" || dbPass == "" || dbHost == "" {
		dbUser = conf.AppConfig.Username
		dbPass = conf.AppConfig.Db.Password
		dbHost = conf.AppConfig.Host
		dbPort = conf.AppConfig.Port
		dbName = conf.AppConfig.DbName
	}

	// 初始化数据库，未配置时跳过，成交历史相关功能降级
	var datasource *gorm.DB
	if dbHost != "" && dbName != "" {
		datasource = db.Init(db.Config{
			User:      dbUser,
			Password:  dbPass,
			Host:      dbHost,
			Port:      dbPort,
			DBName:    dbName,
			ParseTime: true,
		})
	} else {
		logger.Warn("database not configured, trade history disabled")
	}

	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	if redisHost != "" && redisPort != "" {
		appCfg.Redis.Addr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	}
	if redisPassword != "" {
		appCfg.Redis.Password = redisPassword
	}

	// 初始化redis缓存，未配置时节流走查库路径
	cache.InitRedis(appCfg.Redis)

	// 创建并启动服务
	srv := api.NewServer(&appCfg)
	srv.RegisterOnShutdown(func() {
		if datasource != nil {
			// 关闭主库链接
			m, err := datasource.DB()
			if err == nil {
				_ = m.Close()
			}
		}

		cache.CloseRedis()
		logger.Sync()
	})
	srvRouter := api.InitRouter(datasource)

	srv.Run(middleware.NewMiddleware(), srvRouter)
}
