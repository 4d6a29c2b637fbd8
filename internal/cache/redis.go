package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// VisitorCountKey holds the public site visitor counter.
	VisitorCountKey = "site:visitors"
)

var client *redis.Client

// Init initializes the Redis connection. The server degrades
// gracefully when Redis is down: every helper no-ops on a nil client.
func Init(addr, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and valid
func GetCachedAuth(ctx context.Context, email, password string) (int64, bool) {
	if client == nil {
		return 0, false
	}
	key := hashCredentials(email, password)
	userID, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CacheAuth caches valid credentials for 15 minutes
func CacheAuth(ctx context.Context, email, password string, userID int64) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Set(ctx, key, userID, 15*time.Minute)
}

// InvalidateAuth removes cached auth for a user (on password change/logout)
func InvalidateAuth(ctx context.Context, email, password string) {
	if client == nil {
		return
	}
	key := hashCredentials(email, password)
	client.Del(ctx, key)
}

// ============================================
// Generic Cache Functions
// ============================================

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// ============================================
// Entity-Based Cache Invalidators
// ============================================

// InvalidateCustomerCaches clears customer lists and derived statements.
// Called when: CreateCustomer, UpdateCustomer, DeleteCustomer, ImportCustomers
func InvalidateCustomerCaches(ctx context.Context) {
	InvalidatePattern(ctx, "customers:*")
	InvalidatePattern(ctx, "statements:*")
	InvalidateKeys(ctx, "billing:summary")
}

// InvalidateDeliveryCaches clears delivery lists and derived statements.
// Called when: UpsertDelivery, ApplyBatch, ImportDeliveries
func InvalidateDeliveryCaches(ctx context.Context) {
	InvalidatePattern(ctx, "deliveries:*")
	InvalidatePattern(ctx, "statements:*")
	InvalidateKeys(ctx, "billing:summary")
}

// InvalidatePaymentCaches clears payment lists and derived statements.
// Called when: CreatePayment, UpdatePayment, DeletePayment, online payment success
func InvalidatePaymentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "payments:*")
	InvalidatePattern(ctx, "statements:*")
	InvalidateKeys(ctx, "billing:summary")
}

// InvalidateContentCaches clears cached public site content.
// Called when: UpdateContent
func InvalidateContentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "content:*")
}

// InvalidateSettingCaches clears cached system settings.
// Called when: UpdateSetting
func InvalidateSettingCaches(ctx context.Context) {
	InvalidatePattern(ctx, "settings:*")
}

// ============================================
// Visitor Counter
// ============================================

// IncrementVisitors bumps the public site visitor counter and returns
// the new total. Returns 0 when Redis is down; the public page hides
// the counter instead of showing a wrong number.
func IncrementVisitors(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	count, err := client.Incr(ctx, VisitorCountKey).Result()
	if err != nil {
		return 0
	}
	return count
}

// VisitorCount reads the counter without incrementing.
func VisitorCount(ctx context.Context) int64 {
	if client == nil {
		return 0
	}
	count, err := client.Get(ctx, VisitorCountKey).Int64()
	if err != nil {
		return 0
	}
	return count
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
