package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks kafka.RequiredAcks
	Compression  kafka.Compression
	MaxAttempts  int
	WriteTimeout time.Duration
	ReadTimeout  time.Duration
	Async        bool
}

// ProducerOption configures the producer.
type ProducerOption func(*ProducerConfig)

func defaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		RequiredAcks: kafka.RequireOne,
		Compression:  kafka.Snappy,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
}

// WithBrokers sets broker addresses.
func WithBrokers(brokers []string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Brokers = brokers
	}
}

// WithTopic sets the target topic.
func WithTopic(topic string) ProducerOption {
	return func(c *ProducerConfig) {
		c.Topic = topic
	}
}

// WithRequiredAcks sets the ack level ("none", "one", "all").
func WithRequiredAcks(acks string) ProducerOption {
	return func(c *ProducerConfig) {
		switch acks {
		case "none":
			c.RequiredAcks = kafka.RequireNone
		case "all":
			c.RequiredAcks = kafka.RequireAll
		default:
			c.RequiredAcks = kafka.RequireOne
		}
	}
}

// WithCompression sets the compression codec ("snappy", "gzip", "lz4",
// "zstd", "none").
func WithCompression(codec string) ProducerOption {
	return func(c *ProducerConfig) {
		switch codec {
		case "gzip":
			c.Compression = kafka.Gzip
		case "lz4":
			c.Compression = kafka.Lz4
		case "zstd":
			c.Compression = kafka.Zstd
		case "none":
			c.Compression = 0
		default:
			c.Compression = kafka.Snappy
		}
	}
}

// WithMaxAttempts sets write retry attempts.
func WithMaxAttempts(n int) ProducerOption {
	return func(c *ProducerConfig) {
		if n > 0 {
			c.MaxAttempts = n
		}
	}
}

// WithWriteTimeout sets the write timeout.
func WithWriteTimeout(d time.Duration) ProducerOption {
	return func(c *ProducerConfig) {
		if d > 0 {
			c.WriteTimeout = d
		}
	}
}

// WithAsync enables fire-and-forget writes.
func WithAsync(async bool) ProducerOption {
	return func(c *ProducerConfig) {
		c.Async = async
	}
}
