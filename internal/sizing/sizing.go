package sizing

import (
	"errors"

	"dexflow/internal/model"

	"github.com/shopspring/decimal"
)

// 尺寸引擎：把告警和上下文换算成具体下单数量，纯计算不触网
//
// 数量来源优先级：
//  1. sizeByLeverage: size = 账户权益 * 杠杆系数 / 参考价
//  2. sizeUsd:        size = 美元名义 / 参考价
//  3. reverse且非首单: size = alert.size * 2（翻向要先平掉旧仓再开等量新仓）
//  4. 其他:            size = alert.size

var (
	ErrSizeBelowMinimum = errors.New("quantized size below exchange minimum")
	ErrMissingPrice     = errors.New("reference price required for sizing")
	ErrMissingEquity    = errors.New("account equity required for leverage sizing")
	ErrNoSizeInput      = errors.New("alert carries no usable size input")
)

// Context 计算时需要的账户与账本快照
type Context struct {
	AccountEquity float64
	Ledger        *model.StrategyState
	Meta          model.MarketMeta
}

// ComputeSize 计算并按交易所步进量化后的下单数量
func ComputeSize(alert *model.AlertMessage, ctx Context) (float64, error) {
	raw, err := rawSize(alert, ctx)
	if err != nil {
		return 0, err
	}

	size := Quantize(raw, ctx.Meta.StepSize)
	if ctx.Meta.MinOrderSize > 0 && size < ctx.Meta.MinOrderSize {
		return 0, ErrSizeBelowMinimum
	}
	if size <= 0 {
		return 0, ErrSizeBelowMinimum
	}
	return size, nil
}

func rawSize(alert *model.AlertMessage, ctx Context) (float64, error) {
	switch {
	case alert.SizeByLeverage > 0:
		if alert.Price <= 0 {
			return 0, ErrMissingPrice
		}
		if ctx.AccountEquity <= 0 {
			return 0, ErrMissingEquity
		}
		equity := decimal.NewFromFloat(ctx.AccountEquity)
		lev := decimal.NewFromFloat(alert.SizeByLeverage)
		price := decimal.NewFromFloat(alert.Price)
		v, _ := equity.Mul(lev).Div(price).Float64()
		return v, nil

	case alert.SizeUsd > 0:
		if alert.Price <= 0 {
			return 0, ErrMissingPrice
		}
		usd := decimal.NewFromFloat(alert.SizeUsd)
		price := decimal.NewFromFloat(alert.Price)
		v, _ := usd.Div(price).Float64()
		return v, nil

	case alert.Size > 0:
		if alert.IsReverse() && ctx.Ledger != nil && !ctx.Ledger.FirstOrder() {
			return alert.Size * 2, nil
		}
		return alert.Size, nil
	}
	return 0, ErrNoSizeInput
}

// Quantize 向零取整到步进的整数倍，step<=0时原样返回
func Quantize(size, step float64) float64 {
	if step <= 0 {
		return size
	}
	s := decimal.NewFromFloat(size)
	st := decimal.NewFromFloat(step)
	steps := s.Div(st).Truncate(0)
	v, _ := steps.Mul(st).Float64()
	return v
}

// LimitPrice 给市价式执行计算滑点保护限价：
// 买单上浮、卖单下压，保证可成交的同时限定最差成交价
func LimitPrice(side model.OrderSide, referencePrice, slippagePct, tick float64) float64 {
	price := decimal.NewFromFloat(referencePrice)
	slip := decimal.NewFromFloat(slippagePct)

	var bounded decimal.Decimal
	if side == model.Buy {
		bounded = price.Mul(decimal.NewFromInt(1).Add(slip))
	} else {
		bounded = price.Mul(decimal.NewFromInt(1).Sub(slip))
	}

	if tick <= 0 {
		v, _ := bounded.Float64()
		return v
	}

	t := decimal.NewFromFloat(tick)
	steps := bounded.Div(t)
	// 买单向上取tick，卖单向下，保持限价的可成交方向
	if side == model.Buy {
		steps = steps.Ceil()
	} else {
		steps = steps.Floor()
	}
	v, _ := steps.Mul(t).Float64()
	return v
}
