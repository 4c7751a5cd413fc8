package database

import (
	"fdadmin/pkg/cache"
	"fdadmin/pkg/config"
	"sync"
)

var (
	queryCacheInstance *cache.QueryCache
	queryCacheOnce     sync.Once
)

// GetQueryCache 获取查询缓存的单例实例
func GetQueryCache() *cache.QueryCache {
	queryCacheOnce.Do(func() {
		cfg := config.GetConfig()
		queryCacheInstance = cache.NewQueryCache(&cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	})
	return queryCacheInstance
}

// SetQueryCache 替换查询缓存实例
// 测试场景注入miniredis后端时使用
func SetQueryCache(c *cache.QueryCache) {
	queryCacheOnce.Do(func() {})
	queryCacheInstance = c
}

// CloseQueryCache 关闭Redis连接
func CloseQueryCache() error {
	if queryCacheInstance != nil {
		return queryCacheInstance.Close()
	}
	return nil
}
