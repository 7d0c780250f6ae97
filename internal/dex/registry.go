package dex

import "sync"

// Registry 交易所键 -> 适配器实例，进程启动时一次性注册
// 未注册的键返回absent，调用方按校验失败处理而不是崩溃
type Registry struct {
	dexes map[string]DexAdapter
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{dexes: make(map[string]DexAdapter)}
}

func (r *Registry) Register(a DexAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dexes[a.Key()] = a
}

func (r *Registry) GetDex(key string) (DexAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.dexes[key]
	return a, ok
}

func (r *Registry) Has(key string) bool {
	_, ok := r.GetDex(key)
	return ok
}

func (r *Registry) ListKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.dexes))
	for k := range r.dexes {
		keys = append(keys, k)
	}
	return keys
}
