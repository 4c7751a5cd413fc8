package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrMiss 缓存未命中
var ErrMiss = errors.New("缓存未命中")

// QueryCache Redis查询缓存
// 键格式：{prefix}:{resource}:{filter串}，按资源整体失效。
// 写操作成功后调用 Invalidate 清理受影响资源的所有键，
// 这是读写之间唯一的一致性机制（与管理台的缓存失效约定一致）
type QueryCache struct {
	client *redis.Client
	prefix string
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewQueryCache 创建查询缓存实例
func NewQueryCache(config *Config) *QueryCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "fdadmin:cache"
	}

	return &QueryCache{
		client: client,
		prefix: prefix,
	}
}

// NewQueryCacheWithClient 使用已有客户端创建查询缓存（测试用）
func NewQueryCacheWithClient(client *redis.Client, prefix string) *QueryCache {
	if prefix == "" {
		prefix = "fdadmin:cache"
	}
	return &QueryCache{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (q *QueryCache) Close() error {
	return q.client.Close()
}

// Ping 测试Redis连接
func (q *QueryCache) Ping() error {
	ctx := context.Background()
	return q.client.Ping(ctx).Err()
}

// GetClient 获取底层Redis客户端
func (q *QueryCache) GetClient() *redis.Client {
	return q.client
}

// Get 读取缓存并反序列化到dest，未命中返回 ErrMiss
func (q *QueryCache) Get(resource, key string, dest interface{}) error {
	ctx := context.Background()

	data, err := q.client.Get(ctx, q.cacheKey(resource, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 序列化并写入缓存
func (q *QueryCache) Set(resource, key string, value interface{}, ttl time.Duration) error {
	ctx := context.Background()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化缓存数据失败: %v", err)
	}

	return q.client.Set(ctx, q.cacheKey(resource, key), data, ttl).Err()
}

// Invalidate 按资源整体失效
// 扫描并删除资源前缀下的所有键；多个资源依次处理，后失效者覆盖先失效者
func (q *QueryCache) Invalidate(resources ...string) error {
	ctx := context.Background()

	for _, resource := range resources {
		pattern := fmt.Sprintf("%s:%s:*", q.prefix, resource)

		var cursor uint64
		for {
			keys, next, err := q.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("扫描缓存键失败: %v", err)
			}
			if len(keys) > 0 {
				if err := q.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("删除缓存键失败: %v", err)
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
	}

	return nil
}

// cacheKey 生成完整缓存键
func (q *QueryCache) cacheKey(resource, key string) string {
	return fmt.Sprintf("%s:%s:%s", q.prefix, resource, key)
}
