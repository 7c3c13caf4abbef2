package store

import (
	"context"
	"sync"

	"recipe-extractor/internal/pkg/common"

	"go.uber.org/zap"
)

// MemoryStore 記憶體儲存（程式結束即消失，適合測試與暫時使用）
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	stats memoryStats
}

type memoryStats struct {
	hits   int64
	misses int64
	writes int64
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get 取得值
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if ok {
		m.stats.hits++
	} else {
		m.stats.misses++
	}
	return v, ok, nil
}

// Set 寫入值
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	m.stats.writes++
	return nil
}

// Delete 刪除值
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// GetStats 取得統計資訊
func (m *MemoryStore) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"keys":   len(m.data),
		"hits":   m.stats.hits,
		"misses": m.stats.misses,
		"writes": m.stats.writes,
	}
}

// Close 清空資料
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]string)
	common.LogDebug("記憶體儲存已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("寫入次數", m.stats.writes),
	)
	return nil
}
