package cache

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/c9s/connectors/pkg/types"
)

const DefaultRedisExpiry = 24 * time.Hour

var redisLogger = log.WithFields(log.Fields{
	"cache": "redis",
})

type RedisConfig struct {
	Host      string `json:"host" yaml:"host" env:"REDIS_HOST"`
	Port      string `json:"port" yaml:"port" env:"REDIS_PORT"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty" env:"REDIS_PASSWORD"`
	DB        int    `json:"db" yaml:"db" env:"REDIS_DB"`
	Namespace string `json:"namespace" yaml:"namespace"`

	Expiry time.Duration `json:"expiry" yaml:"expiry"`
}

// RedisStore keeps market snapshots in redis so that several processes can
// share one discovery result. Keys are "<namespace>:markets:<exchange>".
type RedisStore struct {
	redis     redis.Cmdable
	namespace string
	expiry    time.Duration
}

func NewRedisStore(config RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	return NewRedisStoreWithClient(client, config.Namespace, config.Expiry)
}

func NewRedisStoreWithClient(client redis.Cmdable, namespace string, expiry time.Duration) *RedisStore {
	if expiry <= 0 {
		expiry = DefaultRedisExpiry
	}

	return &RedisStore{redis: client, namespace: namespace, expiry: expiry}
}

func (s *RedisStore) key(exchange string) string {
	key := "markets:" + exchange
	if s.namespace != "" {
		key = s.namespace + ":" + key
	}
	return key
}

func (s *RedisStore) Load(ctx context.Context, exchange string) (*types.MarketSnapshot, error) {
	key := s.key(exchange)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrapf(err, "redis get %s", key)
	}

	redisLogger.Debugf("[redis] get key %q, %d bytes", key, len(data))

	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var snapshot types.MarketSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrapf(err, "decode market snapshot %s", key)
	}
	return &snapshot, nil
}

func (s *RedisStore) Save(ctx context.Context, exchange string, snapshot types.MarketSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	key := s.key(exchange)
	if err := s.redis.Set(ctx, key, data, s.expiry).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}

	redisLogger.Debugf("[redis] set key %q, %d bytes, expiration = %s", key, len(data), s.expiry)
	return nil
}

func (s *RedisStore) Reset(ctx context.Context, exchange string) error {
	return s.redis.Del(ctx, s.key(exchange)).Err()
}
