package ledger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dexflow/internal/model"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// 账本：每个策略的持久状态（isFirstOrder / position / reverse）
// 按网络环境分文档存储，进程内所有读写经过同一把锁，
// 校验侧的初始化和记录侧的更新不会交错

// ErrStorageUnavailable 账本不可读/不可写，当前请求视为致命错误，
// 账本读不出来就不允许下单（反向翻倍和首单抑制都依赖它）
var ErrStorageUnavailable = errors.New("ledger storage unavailable")

// 可写字段名
const (
	FieldIsFirstOrder = "isFirstOrder"
	FieldPosition     = "position"
	FieldReverse      = "reverse"
)

type Ledger interface {
	// EnsureExists 幂等地建立策略的账本条目，返回当前状态
	EnsureExists(strategy string, reverse bool) (*model.StrategyState, error)
	// Read 读取策略状态，不存在时第二个返回值为false
	Read(strategy string) (*model.StrategyState, bool, error)
	// WriteField 单字段持久化upsert，返回前已落盘
	WriteField(strategy string, field string, value any) error
	// AdjustPosition 原子地累加持仓并返回新值，买正卖负
	AdjustPosition(strategy string, delta float64) (float64, error)
}

// FileLedger 文件实现，一个环境一个JSON文档，写入走临时文件+rename
type FileLedger struct {
	path string
	mu   sync.RWMutex
	doc  map[string]*model.StrategyState
	// 加载失败后置位，后续所有操作直接报错
	broken bool
}

// Open 打开某个网络环境的账本文档，文件不存在时创建空账本
func Open(dir, network string) (*FileLedger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	l := &FileLedger{
		path: filepath.Join(dir, fmt.Sprintf("ledger-%s.json", network)),
		doc:  make(map[string]*model.StrategyState),
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		l.broken = true
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &l.doc); err != nil {
			l.broken = true
			return nil, fmt.Errorf("%w: corrupt document %s: %v", ErrStorageUnavailable, l.path, err)
		}
	}
	return l, nil
}

func (l *FileLedger) EnsureExists(strategy string, reverse bool) (*model.StrategyState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.broken {
		return nil, ErrStorageUnavailable
	}

	if st, ok := l.doc[strategy]; ok {
		cp := *st
		return &cp, nil
	}

	st := model.NewStrategyState(reverse)
	l.doc[strategy] = st
	if err := l.save(); err != nil {
		delete(l.doc, strategy)
		return nil, err
	}
	cp := *st
	return &cp, nil
}

func (l *FileLedger) Read(strategy string) (*model.StrategyState, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.broken {
		return nil, false, ErrStorageUnavailable
	}

	st, ok := l.doc[strategy]
	if !ok {
		return nil, false, nil
	}
	cp := *st
	return &cp, true, nil
}

func (l *FileLedger) WriteField(strategy string, field string, value any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.broken {
		return ErrStorageUnavailable
	}

	st, ok := l.doc[strategy]
	if !ok {
		st = model.NewStrategyState(false)
		l.doc[strategy] = st
	}
	prev := *st

	switch field {
	case FieldIsFirstOrder:
		s, err := cast.ToStringE(value)
		if err != nil {
			return fmt.Errorf("isFirstOrder value %v: %w", value, err)
		}
		// 只允许 true -> false，永不回退
		if st.IsFirstOrder == model.FirstOrderFalse && s == model.FirstOrderTrue {
			return nil
		}
		st.IsFirstOrder = s
	case FieldPosition:
		f, err := cast.ToFloat64E(value)
		if err != nil {
			return fmt.Errorf("position value %v: %w", value, err)
		}
		st.Position = f
	case FieldReverse:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("reverse value %v: %w", value, err)
		}
		st.Reverse = b
	default:
		return fmt.Errorf("unknown ledger field %q", field)
	}

	if err := l.save(); err != nil {
		*st = prev
		return err
	}
	return nil
}

func (l *FileLedger) AdjustPosition(strategy string, delta float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.broken {
		return 0, ErrStorageUnavailable
	}

	st, ok := l.doc[strategy]
	if !ok {
		st = model.NewStrategyState(false)
		l.doc[strategy] = st
	}
	prev := st.Position
	st.Position += delta
	if err := l.save(); err != nil {
		st.Position = prev
		return 0, err
	}
	return st.Position, nil
}

// save 调用方必须持有写锁；先写临时文件再rename，并在rename前fsync，
// 保证返回时数据已落盘
func (l *FileLedger) save() error {
	data, err := json.MarshalIndent(l.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	tmp := l.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if _, err = f.Write(data); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (l *FileLedger) Path() string {
	return l.path
}
