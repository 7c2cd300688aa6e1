package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is what the Redis transport pushes onto the daemon's queue. The
// daemon pushes its Ack onto ReplyTo.
type Envelope struct {
	ReplyTo string           `json:"replyTo"`
	Message reminder.Message `json:"message"`
}

type redisQueue interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Redis sends messages through a list the daemon consumes and waits on a
// per-request reply list.
type Redis struct {
	client redisQueue
	queue  string
}

// DialRedis connects to url and targets queue.
func DialRedis(url, queue string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{client: redis.NewClient(opts), queue: queue}, nil
}

func newRedisChannel(client redisQueue, queue string) *Redis {
	return &Redis{client: client, queue: queue}
}

func (r *Redis) Send(ctx context.Context, msg reminder.Message) (*reminder.Ack, error) {
	replyKey := fmt.Sprintf("%s:reply:%s", r.queue, uuid.NewString())
	data, err := json.Marshal(Envelope{ReplyTo: replyKey, Message: msg})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	if err := r.client.RPush(ctx, r.queue, data).Err(); err != nil {
		return nil, fmt.Errorf("send %s: %w", msg.Payload.Action, err)
	}
	defer r.client.Del(context.WithoutCancel(ctx), replyKey)

	reply, err := r.client.BLPop(ctx, 0, replyKey).Result()
	if err != nil {
		return nil, fmt.Errorf("await ack: %w", err)
	}
	if len(reply) != 2 {
		return nil, fmt.Errorf("await ack: unexpected reply %v", reply)
	}
	return reminder.DecodeAck([]byte(reply[1]))
}

func (r *Redis) Close() error {
	return r.client.Close()
}
