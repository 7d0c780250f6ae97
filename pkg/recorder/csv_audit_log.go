package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// 每个交易所+网络环境一个审计文件，首次创建时写入表头，之后只追加

var auditHeader = []string{
	"timestamp", "strategy", "market", "side", "size",
	"fill_price", "signal_price", "price_gap", "status", "order_id",
}

type CSVAuditLog struct {
	path string
	mu   sync.Mutex
}

// NewCSVAuditLog 打开（或创建）某个交易所在某个环境下的审计日志
func NewCSVAuditLog(dir, exchange, network string) (*CSVAuditLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("trades-%s-%s.csv", exchange, network))

	a := &CSVAuditLog{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := a.append(auditHeader); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Append 追加一行，字段顺序必须与表头一致
func (a *CSVAuditLog) Append(row []string) error {
	return a.append(row)
}

func (a *CSVAuditLog) append(row []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (a *CSVAuditLog) Path() string {
	return a.path
}
