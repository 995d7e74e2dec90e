package redis

import (
	"github.com/redis/go-redis/v9"
)

var (
	address  string
	password string
)

// Init records connection settings for subsequent RedisClient calls.
func Init(addr, pass string) {
	address = addr
	password = pass
}

func RedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       0,
		Protocol: 2,
	})
}
