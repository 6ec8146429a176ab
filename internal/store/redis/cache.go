package redis

import (
	"context"
	"fmt"
)

// recentKey holds the capped list of recently logged activities, newest
// first. The dashboard reads it instead of hitting Postgres on every poll.
const (
	recentKey = "activities:recent"
	recentCap = 1000
)

// PushActivity prepends a serialized activity to the recent list and trims
// it to the last recentCap entries.
func (c *Client) PushActivity(ctx context.Context, payload []byte) error {
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, payload)
	pipe.LTrim(ctx, recentKey, 0, recentCap-1)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis.Client.PushActivity: %w", err)
	}
	return nil
}

// RecentActivities returns up to n serialized activities, newest first.
func (c *Client) RecentActivities(ctx context.Context, n int) ([][]byte, error) {
	if n <= 0 || n > recentCap {
		n = recentCap
	}

	vals, err := c.rdb.LRange(ctx, recentKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis.Client.RecentActivities: %w", err)
	}

	out := make([][]byte, 0, len(vals))
	for _, v := range vals {
		out = append(out, []byte(v))
	}
	return out, nil
}
