package session

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a new Redis client
func NewRedis(addr, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Infow("redis client created", "addr", addr)
	return rdb
}
