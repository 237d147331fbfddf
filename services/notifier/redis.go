package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"sjsage522/winedealworker/internal/deal"
	apperr "sjsage522/winedealworker/pkg/errors"
)

// RedisNotifier publishes enriched deals onto Redis streams for other
// consumers (archival, dashboards). Deals are JSON-encoded and base64
// wrapped, spread over streamCount streams under the prefix.
type RedisNotifier struct {
	client          *redis.Client
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

var _ Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a Redis stream notifier.
func NewRedisNotifier(addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client:          client,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// Notify appends the deal to one of the streams.
// The stream is picked at random: with streamCount 10 the names run
// winedeal:0 through winedeal:9.
func (r *RedisNotifier) Notify(ctx context.Context, d *deal.EnrichedDeal) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return apperr.NewNotification("redis", "encoding deal failed", err)
	}

	encoded := base64.StdEncoding.EncodeToString(payload)
	stream := r.streamPrefix + ":" + strconv.Itoa(rand.Intn(r.streamCount))

	err = r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"deal": encoded,
		},
	}).Err()
	if err != nil {
		return apperr.NewNotification("redis", "stream append failed", err)
	}
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (r *RedisNotifier) TrimStreams(ctx context.Context) error {
	pattern := r.streamPrefix + ":*"
	streams, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := r.client.XTrimMaxLen(ctx, stream, int64(r.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (r *RedisNotifier) Close() error {
	return r.client.Close()
}
