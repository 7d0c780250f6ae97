package dex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dexflow/internal/execution"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/internal/recorder"
	"dexflow/internal/sizing"
	"dexflow/pkg/logger"
)

// Client 各交易所适配器共用的执行管线：
// 读账本 -> 查账户 -> 算数量 -> 算限价 -> 账户锁内提交 -> 记账
// 每个交易所文件只负责提供transport和市场元数据

// 未带slippagePercentage时使用的滑点
const defaultSlippage = 0.005

var ErrAccountNotReady = errors.New("exchange account not ready")

type Client struct {
	key      string
	account  string
	t        Transport
	ledger   ledger.Ledger
	ctrl     *execution.Controller
	rec      *recorder.TradeRecorder
	markets  map[string]model.MarketMeta
	fallback model.MarketMeta

	// 交易所账户是单写者资源，提交期间持有账户级互斥锁，
	// 防止并发告警基于同一份旧仓位双重下单
	mu sync.Mutex
}

func newClient(
	key, account string,
	t Transport,
	l ledger.Ledger,
	ctrl *execution.Controller,
	rec *recorder.TradeRecorder,
	markets map[string]model.MarketMeta,
	fallback model.MarketMeta,
) *Client {
	return &Client{
		key:      key,
		account:  account,
		t:        t,
		ledger:   l,
		ctrl:     ctrl,
		rec:      rec,
		markets:  markets,
		fallback: fallback,
	}
}

func (c *Client) Key() string {
	return c.key
}

func (c *Client) IsAccountReady(ctx context.Context) bool {
	state, err := c.t.AccountState(ctx)
	if err != nil {
		logger.Errorf("[%s] account state: %v", c.key, err)
		return false
	}
	return state.Ready
}

func (c *Client) GetOpenPositions(ctx context.Context) ([]model.OpenPosition, error) {
	return c.t.OpenPositions(ctx)
}

func (c *Client) PlaceOrder(ctx context.Context, alert *model.AlertMessage) (*model.ExecutionOutcome, error) {
	// 账本读不出来就不下单，反向翻倍和首单抑制都依赖它
	state, ok, err := c.ledger.Read(alert.Strategy)
	if err != nil {
		return nil, fmt.Errorf("read ledger for %s: %w", alert.Strategy, err)
	}
	if !ok {
		// 校验阶段已经EnsureExists过，这里兜底
		state, err = c.ledger.EnsureExists(alert.Strategy, alert.IsReverse())
		if err != nil {
			return nil, fmt.Errorf("init ledger for %s: %w", alert.Strategy, err)
		}
	}

	acc, err := c.t.AccountState(ctx)
	if err != nil {
		return nil, fmt.Errorf("account state: %w", err)
	}
	if !acc.Ready {
		return nil, ErrAccountNotReady
	}

	meta := c.meta(alert.Market)
	quantity, err := sizing.ComputeSize(alert, sizing.Context{
		AccountEquity: acc.Equity,
		Ledger:        state,
		Meta:          meta,
	})
	if err != nil {
		return nil, fmt.Errorf("size %s for %s: %w", alert.Market, alert.Strategy, err)
	}

	side := model.Buy
	if strings.EqualFold(alert.Order, model.OrderSell) {
		side = model.Sell
	}

	slippage := alert.SlippagePercentage
	if slippage <= 0 {
		slippage = defaultSlippage
	}

	intent := &model.OrderIntent{
		Market:         alert.Market,
		Side:           side,
		Quantity:       quantity,
		ReferencePrice: alert.Price,
		LimitPrice:     sizing.LimitPrice(side, alert.Price, slippage, meta.TickSize),
		OrderMode:      alert.OrderMode,
		Collateral:     alert.Collateral,
	}

	logger.Infof("[%s] placing order: strategy=%s market=%s side=%s qty=%v limit=%v",
		c.key, alert.Strategy, intent.Market, intent.Side, intent.Quantity, intent.LimitPrice)

	c.mu.Lock()
	outcome := c.ctrl.Execute(ctx, intent, c.t.SubmitOrder)
	c.mu.Unlock()

	c.rec.Record(ctx, alert, outcome)
	return outcome, nil
}

func (c *Client) meta(market string) model.MarketMeta {
	if m, ok := c.markets[market]; ok {
		return m
	}
	m := c.fallback
	m.Market = market
	return m
}
