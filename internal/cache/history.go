package cache

import (
	"sync"
	"time"

	"ssq-predictor/internal/logger"
	"ssq-predictor/internal/lottery"
)

// HistoryCache 开奖历史内存缓存，按请求期数为键，
// 让短时间内的连续预测请求复用同一次后端抓取
type HistoryCache struct {
	mutex sync.RWMutex
	items map[int]*cacheItem
	ttl   time.Duration
	stop  chan struct{}
}

// cacheItem 缓存项
type cacheItem struct {
	draws     []lottery.Draw
	expiresAt time.Time
}

// isExpired 检查是否过期
func (item *cacheItem) isExpired() bool {
	return time.Now().After(item.expiresAt)
}

// NewHistoryCache 创建开奖历史缓存并启动清理协程
func NewHistoryCache(ttl time.Duration) *HistoryCache {
	cache := &HistoryCache{
		items: make(map[int]*cacheItem),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}

	go cache.cleanupLoop()

	logger.Debugf("History cache initialized with TTL %v", ttl)
	return cache
}

// Get 获取缓存的开奖历史
func (c *HistoryCache) Get(count int) ([]lottery.Draw, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.items[count]
	if !exists || item.isExpired() {
		return nil, false
	}
	return item.draws, true
}

// Set 写入开奖历史
func (c *HistoryCache) Set(count int, draws []lottery.Draw) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[count] = &cacheItem{
		draws:     draws,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Close 停止清理协程
func (c *HistoryCache) Close() {
	close(c.stop)
}

// cleanupLoop 定期清理过期缓存项
func (c *HistoryCache) cleanupLoop() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			for key, item := range c.items {
				if item.isExpired() {
					delete(c.items, key)
				}
			}
			c.mutex.Unlock()
		case <-c.stop:
			return
		}
	}
}
