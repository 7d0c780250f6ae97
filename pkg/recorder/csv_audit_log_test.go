package recorder

import (
	"encoding/csv"
	"os"
	"testing"
)

func TestCSVAuditLogAppend(t *testing.T) {
	dir := t.TempDir()

	a, err := NewCSVAuditLog(dir, "dydx", "testnet")
	if err != nil {
		t.Fatal(err)
	}
	row := []string{
		"2026-01-02T15:04:05Z", "s1", "BTC-USD", "buy", "0.1",
		"64320", "64000", "320", "filled", "ord-1",
	}
	if err := a.Append(row); err != nil {
		t.Fatal(err)
	}

	// 重新打开同一个文件不会重复写表头
	b, err := NewCSVAuditLog(dir, "dydx", "testnet")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Append(row); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(a.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	// 表头 + 两行数据
	if len(records) != 3 {
		t.Fatalf("rows = %d, want 3", len(records))
	}
	if records[0][0] != "timestamp" {
		t.Fatalf("header = %v", records[0])
	}
	if len(records[1]) != len(auditHeader) {
		t.Fatalf("row width = %d, want %d", len(records[1]), len(auditHeader))
	}
}
