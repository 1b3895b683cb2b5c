// Package cache provides the read-through cache of monthly summaries.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/register/core"
	"github.com/trezcool/register/core/attendance"
)

// RedisSummaryCache keeps one hash per month: a field per (form, class) filter, holding the JSON entries.
// Invalidating a month drops the whole hash and increments the month's version counter.
type RedisSummaryCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

var _ attendance.SummaryCache = (*RedisSummaryCache)(nil) // interface compliance check

func NewRedisSummaryCache(rdb goredis.Cmdable, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient connects to the configured redis server.
func NewRedisClient(ctx context.Context, conf *core.Config) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        conf.Cache.RedisAddr,
		DB:          conf.Cache.RedisDB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return rdb, nil
}

func monthKey(month core.MonthYear) string {
	return "register:summaries:" + month.String()
}

func versionKey(month core.MonthYear) string {
	return monthKey(month) + ":version"
}

// setIfCurrent stores ARGV[3] under field ARGV[2] of KEYS[1] only while KEYS[2] still holds version ARGV[1].
var setIfCurrent = goredis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[4])
end
return 1
`)

func filterField(form int, className string) string {
	return fmt.Sprintf("form=%d|class=%s", form, className)
}

func (c *RedisSummaryCache) GetSummaries(ctx context.Context, month core.MonthYear, form int, className string) ([]attendance.SummaryEntry, bool, error) {
	raw, err := c.rdb.HGet(ctx, monthKey(month), filterField(form, className)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "reading cached summaries")
	}

	entries := make([]attendance.SummaryEntry, 0)
	if err = json.Unmarshal(raw, &entries); err != nil {
		return nil, false, errors.Wrap(err, "decoding cached summaries")
	}
	return entries, true, nil
}

func (c *RedisSummaryCache) MonthVersion(ctx context.Context, month core.MonthYear) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(month)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, errors.Wrap(err, "reading cache version")
}

func (c *RedisSummaryCache) SetSummaries(ctx context.Context, month core.MonthYear, version int64, form int, className string, entries []attendance.SummaryEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "encoding summaries")
	}

	keys := []string{monthKey(month), versionKey(month)}
	err = setIfCurrent.Run(ctx, c.rdb, keys, version, filterField(form, className), raw, c.ttl.Milliseconds()).Err()
	return errors.Wrap(err, "caching summaries")
}

func (c *RedisSummaryCache) InvalidateMonth(ctx context.Context, month core.MonthYear) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, monthKey(month))
		pipe.Incr(ctx, versionKey(month))
		return nil
	})
	return errors.Wrap(err, "invalidating cached summaries")
}
