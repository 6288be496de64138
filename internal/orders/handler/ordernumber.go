package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const orderSeqPrefix = "orders:seq:"

// formatOrderNumber renders PE + YYMMDD + zero-padded daily sequence. The
// padding widens on its own past 9999 orders in a day.
func formatOrderNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("PE%s%04d", day.Format("060102"), seq)
}

// NextOrderNumber allocates a unique order number through an atomic daily
// counter. Two concurrent submissions can never observe the same sequence
// value, unlike a count-rows-then-format scheme.
func NextOrderNumber(ctx context.Context, client *redis.Client, now time.Time) (string, error) {
	key := orderSeqPrefix + now.Format("060102")
	seq, err := client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}
	if seq == 1 {
		// First order of the day; let the counter expire well after the day ends.
		_ = client.Expire(ctx, key, 48*time.Hour).Err()
	}
	return formatOrderNumber(now, seq), nil
}
