package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	emailingdomain "feedback360-go/internal/domain/emailing"
	goredis "github.com/redis/go-redis/v9"
)

// EmailingCache shares computed lists between instances. Each tenant has a
// data key and a generation counter; Invalidate bumps the counter so that a
// cold read started before it cannot store its result. Clear bumps a shared
// epoch that counts towards every tenant's generation.
type EmailingCache struct {
	client      goredis.UniversalClient
	prefix      string
	slidingTTL  time.Duration
	absoluteTTL time.Duration
	now         func() time.Time
}

type emailingEntry struct {
	CreatedAt time.Time             `json:"created_at"`
	Items     []emailingdomain.Item `json:"items"`
}

func NewEmailingCache(client goredis.UniversalClient, prefix string, slidingTTL, absoluteTTL time.Duration) *EmailingCache {
	return &EmailingCache{
		client:      client,
		prefix:      prefix,
		slidingTTL:  slidingTTL,
		absoluteTTL: absoluteTTL,
		now:         time.Now,
	}
}

func (c *EmailingCache) dataKey(tenantID string) string {
	return fmt.Sprintf("%s:emailing:%s", c.prefix, tenantID)
}

func (c *EmailingCache) generationKey(tenantID string) string {
	return fmt.Sprintf("%s:emailing-gen:%s", c.prefix, tenantID)
}

func (c *EmailingCache) epochKey() string {
	return c.prefix + ":emailing-epoch"
}

func (c *EmailingCache) Generation(ctx context.Context, tenantID string) (int64, error) {
	values, err := c.client.MGet(ctx, c.generationKey(tenantID), c.epochKey()).Result()
	if err != nil {
		return 0, err
	}
	return sumCounters(values)
}

func (c *EmailingCache) Get(ctx context.Context, tenantID string) ([]emailingdomain.Item, bool, error) {
	key := c.dataKey(tenantID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry emailingEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, c.client.Del(ctx, key).Err()
	}

	if c.slidingTTL <= 0 && c.absoluteTTL <= 0 {
		return entry.Items, true, nil
	}
	ttl := expiryFor(entry.CreatedAt, c.now(), c.slidingTTL, c.absoluteTTL)
	if ttl <= 0 {
		return nil, false, c.client.Del(ctx, key).Err()
	}
	if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
		return nil, false, err
	}
	return entry.Items, true, nil
}

func (c *EmailingCache) Set(ctx context.Context, tenantID string, generation int64, items []emailingdomain.Item) error {
	now := c.now()
	payload, err := json.Marshal(emailingEntry{CreatedAt: now, Items: items})
	if err != nil {
		return err
	}
	ttl := expiryFor(now, now, c.slidingTTL, c.absoluteTTL)

	genKey, epochKey := c.generationKey(tenantID), c.epochKey()
	err = c.client.Watch(ctx, func(tx *goredis.Tx) error {
		values, err := tx.MGet(ctx, genKey, epochKey).Result()
		if err != nil {
			return err
		}
		current, err := sumCounters(values)
		if err != nil {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, c.dataKey(tenantID), payload, ttl)
			return nil
		})
		return err
	}, genKey, epochKey)
	if errors.Is(err, goredis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *EmailingCache) Invalidate(ctx context.Context, tenantID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, c.dataKey(tenantID))
		pipe.Incr(ctx, c.generationKey(tenantID))
		return nil
	})
	return err
}

// Clear moves the epoch before dropping data keys, so a Set racing with the
// scan either fails its watch or writes a key the scan still deletes.
func (c *EmailingCache) Clear(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.epochKey()).Err(); err != nil {
		return err
	}
	iter := c.client.Scan(ctx, 0, c.dataKey("")+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// sumCounters adds MGET results of counter keys. Missing keys count as zero.
// Both counters only grow, so the sum changes whenever either does.
func sumCounters(values []interface{}) (int64, error) {
	var total int64
	for _, value := range values {
		if value == nil {
			continue
		}
		raw, ok := value.(string)
		if !ok {
			return 0, fmt.Errorf("unexpected counter value %T", value)
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// expiryFor returns how long an entry created at createdAt may still live
// when touched at now. Zero or less means it already expired.
func expiryFor(createdAt, now time.Time, sliding, absolute time.Duration) time.Duration {
	if absolute <= 0 {
		return sliding
	}
	remaining := createdAt.Add(absolute).Sub(now)
	if sliding > 0 && sliding < remaining {
		return sliding
	}
	return remaining
}
