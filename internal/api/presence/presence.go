package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m-waqas88/messenger/internal/api/utility"
	"github.com/m-waqas88/messenger/internal/domain"
)

const onlineSetKey = "presence:online"

var _ domain.PresenceRegistry = (*Registry)(nil)

// Registry keeps the set of currently-online user ids in Redis. Membership
// is driven by websocket connection lifetime, everything else in the system
// only ever asks Online.
type Registry struct {
	client *redis.Client
}

func OpenRegistry(cfg *utility.Config) *Registry {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		panic("failed to connect redis")
	}
	return &Registry{client: client}
}

func NewRegistry(client *redis.Client) *Registry {
	return &Registry{client: client}
}

func (r *Registry) SetOnline(ctx context.Context, userID string) error {
	return r.client.SAdd(ctx, onlineSetKey, userID).Err()
}

func (r *Registry) SetOffline(ctx context.Context, userID string) error {
	return r.client.SRem(ctx, onlineSetKey, userID).Err()
}

func (r *Registry) Online(ctx context.Context, userID string) (bool, error) {
	return r.client.SIsMember(ctx, onlineSetKey, userID).Result()
}

func (r *Registry) Close() error {
	return r.client.Close()
}
