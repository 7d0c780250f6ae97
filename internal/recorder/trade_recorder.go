package recorder

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"dexflow/internal/dao"
	"dexflow/internal/ledger"
	"dexflow/internal/model"
	"dexflow/pkg/logger"

	"github.com/goccy/go-json"
)

// 成交记录器：执行结束后更新账本并落审计日志
// 交易所侧的成交是事实源，这里的任何失败都只记日志不上抛，
// 绝不能因为记账失败去"回滚"一笔已经成交的订单

// AuditAppender 审计日志追加接口（CSV文件实现在pkg/recorder）
type AuditAppender interface {
	Append(row []string) error
}

// RawRecorder 原始执行记录，一行一条JSON，留作回放与排查
type RawRecorder interface {
	Record(result any) error
}

type TradeRecorder struct {
	exchange string
	network  string
	ledger   ledger.Ledger
	audit    AuditAppender
	raw      RawRecorder  // 可为nil
	dao      dao.TradeDao // 可为nil（未配置数据库时只写文件审计）
}

func NewTradeRecorder(exchange, network string, l ledger.Ledger, audit AuditAppender, d dao.TradeDao) *TradeRecorder {
	return &TradeRecorder{
		exchange: exchange,
		network:  network,
		ledger:   l,
		audit:    audit,
		dao:      d,
	}
}

// SetRawLog 挂上原始执行记录，不设置则跳过
func (r *TradeRecorder) SetRawLog(raw RawRecorder) {
	r.raw = raw
}

// Record 每次执行尝试记一条审计；只有成交才更新账本
func (r *TradeRecorder) Record(ctx context.Context, alert *model.AlertMessage, outcome *model.ExecutionOutcome) {
	if outcome == nil {
		return
	}

	if outcome.State == model.OutcomeFilled {
		r.applyFill(alert.Strategy, outcome)
	}

	r.appendAudit(alert, outcome)
	r.appendRaw(alert, outcome)
	r.insertHistory(ctx, alert, outcome)
}

func (r *TradeRecorder) appendRaw(alert *model.AlertMessage, outcome *model.ExecutionOutcome) {
	if r.raw == nil {
		return
	}
	entry := map[string]any{
		"time":    time.Now().Format(time.RFC3339),
		"alert":   alert,
		"outcome": outcome,
	}
	if err := r.raw.Record(entry); err != nil {
		logger.Errorf("[TradeRecorder] raw log failed: %v", err)
	}
}

// applyFill 首单标记置false（幂等），持仓按成交方向累加
func (r *TradeRecorder) applyFill(strategy string, outcome *model.ExecutionOutcome) {
	if err := r.ledger.WriteField(strategy, ledger.FieldIsFirstOrder, model.FirstOrderFalse); err != nil {
		logger.Errorf("[TradeRecorder] %s write isFirstOrder failed: %v", strategy, err)
	}

	delta := outcome.FilledSize
	if outcome.Side == model.Sell {
		delta = -delta
	}
	if pos, err := r.ledger.AdjustPosition(strategy, delta); err != nil {
		logger.Errorf("[TradeRecorder] %s adjust position failed: %v", strategy, err)
	} else {
		logger.Infof("[TradeRecorder] %s position -> %v", strategy, pos)
	}
}

func (r *TradeRecorder) appendAudit(alert *model.AlertMessage, outcome *model.ExecutionOutcome) {
	if r.audit == nil {
		return
	}
	gap := outcome.FilledPrice - alert.Price
	row := []string{
		time.Now().Format(time.RFC3339),
		alert.Strategy,
		alert.Market,
		string(outcome.Side),
		strconv.FormatFloat(outcome.FilledSize, 'f', -1, 64),
		strconv.FormatFloat(outcome.FilledPrice, 'f', -1, 64),
		strconv.FormatFloat(alert.Price, 'f', -1, 64),
		strconv.FormatFloat(gap, 'f', -1, 64),
		string(outcome.State),
		outcome.OrderId,
	}
	if err := r.audit.Append(row); err != nil {
		logger.Errorf("[TradeRecorder] audit append failed: %v", err)
	}
}

func (r *TradeRecorder) insertHistory(ctx context.Context, alert *model.AlertMessage, outcome *model.ExecutionOutcome) {
	if r.dao == nil {
		return
	}

	raw, err := json.Marshal(alert)
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"marshal_error":%q}`, err.Error()))
	}

	record := &model.TradeRecord{
		CreatedAt:   time.Now(),
		Exchange:    r.exchange,
		Network:     r.network,
		Strategy:    alert.Strategy,
		Market:      alert.Market,
		Side:        outcome.Side,
		Size:        outcome.FilledSize,
		FillPrice:   outcome.FilledPrice,
		SignalPrice: alert.Price,
		PriceGap:    outcome.FilledPrice - alert.Price,
		Status:      string(outcome.State),
		OrderId:     outcome.OrderId,
		RawAlert:    raw,
	}
	if err := r.dao.TradeCreateNew(ctx, record); err != nil {
		logger.Errorf("[TradeRecorder] insert history failed: %v", err)
	}
}
