package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"dexflow/internal/dao"
	"dexflow/internal/dex"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/sizing"
	"dexflow/internal/validator"
	"dexflow/pkg/errors"
	"dexflow/pkg/errors/ecode"
	"dexflow/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// 告警处理服务：节流 -> 校验 -> 建账本条目 -> 选适配器 -> 执行
// http(webhook) ---> AlertService ---> DexAdapter (实现类)

type AlertService struct {
	registry   *dex.Registry
	validator  *validator.AlertValidator
	ledger     ledger.Ledger
	dao        dao.TradeDao  // 可为nil
	rdb        *redis.Client // 可为nil，nil时节流退化为查库
	interval   time.Duration
	defaultDex string
}

func NewAlertService(
	registry *dex.Registry,
	v *validator.AlertValidator,
	l ledger.Ledger,
	d dao.TradeDao,
	rdb *redis.Client,
	interval time.Duration,
	defaultDex string,
) *AlertService {
	return &AlertService{
		registry:   registry,
		validator:  v,
		ledger:     l,
		dao:        d,
		rdb:        rdb,
		interval:   interval,
		defaultDex: defaultDex,
	}
}

// Process 处理一条告警，返回nil表示订单已成交
// 失败原因只进日志，webhook层对信号源永远回200
func (s *AlertService) Process(ctx context.Context, alert *model.AlertMessage) error {
	if !s.validator.Validate(alert) {
		return errors.New(ecode.ValidationFailed, "")
	}

	if err := s.allow(ctx, alert); err != nil {
		logger.Warnf("[AlertService] throttled: strategy=%s market=%s: %v", alert.Strategy, alert.Market, err)
		return errors.Wrap(err, ecode.ThrottleHit, "")
	}

	// 账本条目的建立是显式且幂等的，不再混在校验流程里
	state, err := s.ledger.EnsureExists(alert.Strategy, alert.IsReverse())
	if err != nil {
		logger.Errorf("[AlertService] ledger unavailable, order skipped: %v", err)
		return errors.Wrap(err, ecode.StorageFailed, "")
	}

	if !s.validator.AllowFirstClose(alert, state) {
		return errors.New(ecode.ValidationFailed, "flat alert on first-order strategy")
	}

	key := alert.Exchange
	if key == "" {
		key = s.defaultDex
	}
	adapter, ok := s.registry.GetDex(key)
	if !ok {
		logger.Warnf("[AlertService] no adapter for exchange %q", key)
		return errors.New(ecode.UnknownExchange, "")
	}

	outcome, err := adapter.PlaceOrder(ctx, alert)
	if err != nil {
		return s.classify(err)
	}

	switch outcome.State {
	case model.OutcomeFilled:
		logger.Infof("[AlertService] filled: strategy=%s order=%s size=%v price=%v",
			alert.Strategy, outcome.OrderId, outcome.FilledSize, outcome.FilledPrice)
		return nil
	case model.OutcomeRejected:
		return errors.New(ecode.ExecutionFailed, fmt.Sprintf("rejected: %s", outcome.Reason))
	default:
		return errors.Wrap(outcome.LastError, ecode.ExecutionFailed, "retries exhausted")
	}
}

// OpenPositions 持仓透传
func (s *AlertService) OpenPositions(ctx context.Context, exchange string) ([]model.OpenPosition, error) {
	if exchange == "" {
		exchange = s.defaultDex
	}
	adapter, ok := s.registry.GetDex(exchange)
	if !ok {
		return nil, errors.New(ecode.UnknownExchange, "")
	}
	return adapter.GetOpenPositions(ctx)
}

// TradeHistory 按策略查历史成交
func (s *AlertService) TradeHistory(ctx context.Context, strategy string, limit, offset int) ([]model.TradeRecord, error) {
	if s.dao == nil {
		return nil, errors.New(ecode.InternalErr, "trade history store not configured")
	}
	return s.dao.TradeGetList(ctx, strategy, limit, offset)
}

// TradeLast 某策略（可选按市场/方向过滤）的最后一笔记录
func (s *AlertService) TradeLast(ctx context.Context, strategy, market, side string) (model.TradeRecord, error) {
	if s.dao == nil {
		return model.TradeRecord{}, errors.New(ecode.InternalErr, "trade history store not configured")
	}
	return s.dao.TradeGetLast(ctx, strategy, market, side)
}

// allow 同一策略/市场/方向在间隔内只放行一单
// 有redis走SETNX快路径，否则查库看最后一单时间
func (s *AlertService) allow(ctx context.Context, alert *model.AlertMessage) error {
	if s.interval <= 0 {
		return nil
	}

	if s.rdb != nil {
		key := fmt.Sprintf("dexflow:throttle:%s:%s:%s", alert.Strategy, alert.Market, alert.Order)
		ok, err := s.rdb.SetNX(ctx, key, 1, s.interval).Result()
		if err == nil {
			if !ok {
				return fmt.Errorf("duplicate alert within %v", s.interval)
			}
			return nil
		}
		// redis故障时降级查库
		logger.Warnf("[AlertService] redis throttle error, falling back to db: %v", err)
	}

	if s.dao == nil {
		return nil
	}
	record, err := s.dao.TradeGetLast(ctx, alert.Strategy, alert.Market, alert.Order)
	if err != nil {
		return nil // 查库失败不拦截，交给后面的流程
	}
	if !record.CreatedAt.IsZero() && time.Since(record.CreatedAt) < s.interval {
		return fmt.Errorf("duplicate alert within %v", s.interval)
	}
	return nil
}

func (s *AlertService) classify(err error) error {
	switch {
	case isAny(err, ledger.ErrStorageUnavailable):
		return errors.Wrap(err, ecode.StorageFailed, "")
	case isAny(err, sizing.ErrSizeBelowMinimum, sizing.ErrMissingPrice, sizing.ErrMissingEquity, sizing.ErrNoSizeInput):
		return errors.Wrap(err, ecode.SizingFailed, "")
	default:
		return errors.Wrap(err, ecode.ExecutionFailed, "")
	}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if stderrors.Is(err, t) {
			return true
		}
	}
	return false
}
