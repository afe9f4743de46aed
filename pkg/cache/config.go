package cache

import "time"

// Config holds cache configuration.
type Config struct {
	Prefix     string
	DefaultTTL time.Duration
	MaxEntries int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Option configures the cache.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		Prefix:     "coinfunnel",
		DefaultTTL: 5 * time.Minute,
		MaxEntries: 2048,
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithDefaultTTL sets the default entry TTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.DefaultTTL = ttl
	}
}

// WithMaxEntries caps the in-memory cache size.
func WithMaxEntries(n int) Option {
	return func(c *Config) {
		c.MaxEntries = n
	}
}

// WithRedis sets Redis connection parameters.
func WithRedis(addr, password string, db int) Option {
	return func(c *Config) {
		c.RedisAddr = addr
		c.RedisPassword = password
		c.RedisDB = db
	}
}
