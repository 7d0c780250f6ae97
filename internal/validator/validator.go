package validator

import (
	"dexflow/internal/dex"
	"dexflow/internal/model"
	"dexflow/pkg/logger"
)

// 告警校验：非法就记日志返回false，不用异常做控制流，
// webhook无论如何都要应答信号源

type AlertValidator struct {
	registry   *dex.Registry
	passphrase string
	network    string
}

func NewAlertValidator(registry *dex.Registry, passphrase, network string) *AlertValidator {
	return &AlertValidator{
		registry:   registry,
		passphrase: passphrase,
		network:    network,
	}
}

// Validate 结构与语义检查，任一不过立即返回false
// 账本相关的首单平仓检查在账本条目建立后由 AllowFirstClose 单独做
func (v *AlertValidator) Validate(alert *model.AlertMessage) bool {
	if alert == nil || alert.IsEmpty() {
		logger.Warnf("[Validator] empty alert payload")
		return false
	}

	if v.passphrase != "" && alert.Passphrase != v.passphrase {
		logger.Warnf("[Validator] passphrase mismatch, strategy=%s", alert.Strategy)
		return false
	}

	if alert.Exchange != "" && !v.registry.Has(alert.Exchange) {
		logger.Warnf("[Validator] unknown exchange %q, known=%v", alert.Exchange, v.registry.ListKeys())
		return false
	}

	if alert.Strategy == "" {
		logger.Warnf("[Validator] missing strategy name")
		return false
	}

	if alert.Order != model.OrderBuy && alert.Order != model.OrderSell {
		logger.Warnf("[Validator] invalid order %q, strategy=%s", alert.Order, alert.Strategy)
		return false
	}

	switch alert.Position {
	case model.PositionLong, model.PositionShort, model.PositionFlat:
	default:
		logger.Warnf("[Validator] invalid position %q, strategy=%s", alert.Position, alert.Strategy)
		return false
	}

	if alert.Reverse == nil {
		logger.Warnf("[Validator] reverse flag missing or not boolean, strategy=%s", alert.Strategy)
		return false
	}

	// testnet的信号打到mainnet进程（或反过来）按配置错误拒绝
	if alert.EnvProfile != "" && alert.EnvProfile != v.network {
		logger.Warnf("[Validator] env profile %q does not match network %q, strategy=%s",
			alert.EnvProfile, v.network, alert.Strategy)
		return false
	}

	return true
}

// AllowFirstClose flat信号不能是一个策略的第一个动作：
// 没有已知仓位就无仓可平
func (v *AlertValidator) AllowFirstClose(alert *model.AlertMessage, state *model.StrategyState) bool {
	if alert.Position == model.PositionFlat && state != nil && state.FirstOrder() {
		logger.Warnf("[Validator] flat alert suppressed for first-order strategy %s", alert.Strategy)
		return false
	}
	return true
}
