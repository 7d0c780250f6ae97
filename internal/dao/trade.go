package dao

import (
	"context"

	"dexflow/internal/model"

	"gorm.io/gorm"
)

// TradeDao 交易历史的存取接口，方便测试替换
type TradeDao interface {
	// 插入成交记录
	TradeCreateNew(ctx context.Context, record *model.TradeRecord) error
	// 查找相同策略下的最后一条记录
	TradeGetLast(ctx context.Context, strategy, market, side string) (model.TradeRecord, error)
	// 按策略分页查询
	TradeGetList(ctx context.Context, strategy string, limit, offset int) ([]model.TradeRecord, error)
}

type tradeDao struct {
	db *gorm.DB
}

func NewTradeDao(db *gorm.DB) TradeDao {
	return &tradeDao{db: db}
}

func (d *tradeDao) TradeCreateNew(ctx context.Context, record *model.TradeRecord) error {
	return d.db.WithContext(ctx).Create(record).Error
}

func (d *tradeDao) TradeGetLast(ctx context.Context, strategy, market, side string) (tr model.TradeRecord, err error) {
	q := d.db.WithContext(ctx).Model(&model.TradeRecord{}).
		Where("strategy = ?", strategy)
	if market != "" {
		q = q.Where("market = ?", market)
	}
	if side != "" {
		q = q.Where("side = ?", side)
	}
	err = q.Order("created_at DESC").
		Limit(1).
		Find(&tr).Error
	return
}

func (d *tradeDao) TradeGetList(ctx context.Context, strategy string, limit, offset int) (list []model.TradeRecord, err error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := d.db.WithContext(ctx).Model(&model.TradeRecord{})
	if strategy != "" {
		q = q.Where("strategy = ?", strategy)
	}
	err = q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return
}
