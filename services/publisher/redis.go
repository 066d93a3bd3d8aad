package publisher

import (
	"context"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"auctionhunter/logger"
	pkgerr "auctionhunter/pkg/errors"
)

// RedisPublisher implements Publisher on Redis streams. Deals are
// spread across streamCount streams named <prefix>:0 .. <prefix>:N-1
// so consumers can shard by stream.
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
	log             *logger.Logger
}

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
		log:             logger.ForPublisher(),
	}
}

// Publish appends the message to a randomly chosen stream under the
// given field key.
func (p *RedisPublisher) Publish(key string, message []byte) error {
	stream := p.streamPrefix + ":" + strconv.Itoa(rand.Intn(p.streamCount))

	err := p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			key: message,
		},
	}).Err()
	if err != nil {
		return pkgerr.NewPublisher("xadd "+stream, err)
	}

	p.log.Debug().Str("stream", stream).Int("bytes", len(message)).Msg("deal published")
	return nil
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(p.ctx, pattern).Result()
	if err != nil {
		return pkgerr.NewPublisher("list streams", err)
	}

	for _, stream := range streams {
		err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err()
		if err != nil {
			return pkgerr.NewPublisher("trim "+stream, err)
		}
	}

	p.log.Debug().Int("streams", len(streams)).Int("max_length", p.streamMaxLength).Msg("streams trimmed")
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
