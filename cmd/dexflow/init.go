package api

import (
	"fmt"
	"path/filepath"

	"dexflow/conf"
	"dexflow/internal/consts"
	"dexflow/internal/dao"
	"dexflow/internal/dex"
	"dexflow/internal/execution"
	"dexflow/internal/handler/trade"
	"dexflow/internal/handler/webhook"
	"dexflow/internal/ledger"
	"dexflow/internal/recorder"
	"dexflow/internal/router"
	"dexflow/internal/service"
	"dexflow/internal/validator"
	"dexflow/pkg/cache"
	"dexflow/pkg/logger"
	pkgrecorder "dexflow/pkg/recorder"

	"gorm.io/gorm"
)

func InitRouter(datasource *gorm.DB) Router {
	appCfg := conf.AppConfig

	// 账本按网络环境隔离，打不开直接终止，带病启动没有意义
	led, err := ledger.Open(appCfg.Ledger.DataDir, appCfg.Network)
	if err != nil {
		logger.Fatalf("open strategy ledger: %v", err)
	}

	ctrl := execution.NewController(appCfg.Execution.MaxRetries, appCfg.Execution.RetryDelay)

	var td dao.TradeDao
	if datasource != nil {
		td = dao.NewTradeDao(datasource)
	}

	registry := dex.NewRegistry()
	for key, dc := range appCfg.Dexes {
		if !dc.Enabled {
			continue
		}
		audit, err := pkgrecorder.NewCSVAuditLog(appCfg.Audit.LogDir, key, appCfg.Network)
		if err != nil {
			logger.Fatalf("open audit log for %s: %v", key, err)
		}
		rec := recorder.NewTradeRecorder(key, appCfg.Network, led, audit, td)
		rec.SetRawLog(pkgrecorder.NewJSONFileRecorder(
			filepath.Join(appCfg.Audit.LogDir, fmt.Sprintf("raw-%s-%s.jsonl", key, appCfg.Network))))

		// TODO: 接入各交易所的真实客户端，当前统一走模拟transport干跑
		t := dex.NewSimulatedTransport(10000)

		var adapter dex.DexAdapter
		switch key {
		case consts.DexDydx:
			adapter = dex.NewDydxAdapter(t, dc.Account, led, ctrl, rec)
		case consts.DexHyperliquid:
			adapter = dex.NewHyperliquidAdapter(t, dc.Account, led, ctrl, rec)
		case consts.DexPerp:
			adapter = dex.NewPerpAdapter(t, dc.Account, led, ctrl, rec)
		case consts.DexSimulated:
			adapter = dex.NewSimulatedAdapter(t, dc.Account, led, ctrl, rec)
		default:
			logger.Warnf("unknown dex %q in config, skipped", key)
			continue
		}
		registry.Register(adapter)
		logger.Infof("dex adapter registered: %s (network=%s)", key, appCfg.Network)
	}

	av := validator.NewAlertValidator(registry, appCfg.Webhook.Passphrase, appCfg.Network)

	svc := service.NewAlertService(
		registry,
		av,
		led,
		td,
		cache.GetRedisClient(),
		appCfg.Webhook.MinInterval,
		appCfg.DefaultDex,
	)

	wh := webhook.NewHandler(svc)
	th := trade.NewHandler(svc)

	return router.NewApiRouter(wh, th)
}
