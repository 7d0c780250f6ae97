package model

import (
	"time"

	"gorm.io/datatypes"
)

// TradeRecord 每次执行（成功或失败）落库一条，供历史查询
type TradeRecord struct {
	ID        uint      `gorm:"column:id;primary_key;" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Exchange string    `gorm:"column:exchange" json:"exchange"`
	Network  string    `gorm:"column:network" json:"network"`
	Strategy string    `gorm:"column:strategy" json:"strategy"`
	Market   string    `gorm:"column:market" json:"market"`
	Side     OrderSide `gorm:"column:side" json:"side"`

	Size        float64 `gorm:"column:size" json:"size"`
	FillPrice   float64 `gorm:"column:fill_price" json:"fill_price"`
	SignalPrice float64 `gorm:"column:signal_price" json:"signal_price"`
	// 成交价与信号价的差，衡量信号到执行之间的滑移
	PriceGap float64 `gorm:"column:price_gap" json:"price_gap"`

	Status  string `gorm:"column:status" json:"status"` // filled / rejected / exhausted
	OrderId string `gorm:"column:order_id" json:"order_id"`

	// 原始告警，排查问题时用
	RawAlert datatypes.JSON `gorm:"column:raw_alert" json:"raw_alert"`
}

func (TradeRecord) TableName() string {
	return "trade_record"
}
