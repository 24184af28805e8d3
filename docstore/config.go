package docstore

import (
	"github.com/JeremyLoy/config"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// Config holds the environment configuration for the durable store and the
// ambient observability stack.
type Config struct {
	RedisAddress  string
	RedisPassword string
	StatsdAddress string
	LogLevel      string
}

// GetConfig populates a Config from the environment, falling back to local
// development defaults.
func GetConfig() (Config, error) {
	cfg := Config{
		RedisAddress:  "localhost:6379",
		RedisPassword: "",
		StatsdAddress: "",
		LogLevel:      "info",
	}
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "")
	}
	return cfg, nil
}

// NewRedisClient returns a redis client for the configured address.
func (c Config) NewRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.RedisAddress,
		Password: c.RedisPassword,
		DB:       0, // use default DB
	})
}
