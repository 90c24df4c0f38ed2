package favoritestore

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/configloader"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed lua/add_favorite.lua
var luaAddFavorite string

// RedisStore keeps each user's favorites in a hash keyed by address, plus a sorted set
// scored by creation time for newest-first listing.
type RedisStore struct {
	rdb    redis.UniversalClient
	scrAdd *redis.Script
	now    func() time.Time
}

var _ port.FavoritesStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{
		rdb:    rdb,
		scrAdd: redis.NewScript(luaAddFavorite),
		now:    time.Now,
	}
}

// ConnectRedis opens a client for the favorites backend and pings it.
func ConnectRedis(ctx context.Context, cfg configloader.FavoritesConfig) (redis.UniversalClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		MaxRetries:   0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

func keyFavorites(userID string) string { return fmt.Sprintf("favorites:{%s}", userID) }
func keyOrder(userID string) string     { return fmt.Sprintf("favorites:{%s}:order", userID) }

func (s *RedisStore) Add(ctx context.Context, fav entity.FavoriteWallet) (entity.FavoriteWallet, error) {
	fav.CreatedAt = s.now().UTC()
	payload, err := json.Marshal(fav)
	if err != nil {
		return entity.FavoriteWallet{}, fmt.Errorf("failed to encode favorite: %w", err)
	}

	keys := []string{keyFavorites(fav.UserID), keyOrder(fav.UserID)}
	added, err := s.scrAdd.Run(ctx, s.rdb, keys, fav.Address, string(payload), fav.CreatedAt.UnixMicro()).Int64()
	if err != nil {
		return entity.FavoriteWallet{}, fmt.Errorf("failed to add favorite: %w", err)
	}
	if added == 0 {
		return entity.FavoriteWallet{}, fmt.Errorf("%w: wallet already in favorites", entity.ErrAlreadyExists)
	}
	return fav, nil
}

func (s *RedisStore) Remove(ctx context.Context, userID, address string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, keyFavorites(userID), address)
		pipe.ZRem(ctx, keyOrder(userID), address)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, userID string) ([]entity.FavoriteWallet, error) {
	addresses, err := s.rdb.ZRevRange(ctx, keyOrder(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(addresses) == 0 {
		return []entity.FavoriteWallet{}, nil
	}

	raw, err := s.rdb.HMGet(ctx, keyFavorites(userID), addresses...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	favs := make([]entity.FavoriteWallet, 0, len(raw))
	for i, v := range raw {
		str, ok := v.(string)
		if !ok {
			// order entry without a payload; skip it
			continue
		}
		var fav entity.FavoriteWallet
		if err := json.Unmarshal([]byte(str), &fav); err != nil {
			return nil, fmt.Errorf("failed to decode favorite %s: %w", addresses[i], err)
		}
		favs = append(favs, fav)
	}
	return favs, nil
}
