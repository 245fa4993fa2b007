package config

import "time"

// APIGateway definition api_gateway YAML structure
type APIGateway struct {
	Port           string        `mapstructure:"port"`
	UserService    ServiceConfig `mapstructure:"user"`
	ChatService    ServiceConfig `mapstructure:"chat"`
	CardService    ServiceConfig `mapstructure:"card"`
	BookingService ServiceConfig `mapstructure:"booking"`
}

// User definition user_service YAML structure
type User struct {
	Port       string        `mapstructure:"port"`
	IP         string        `mapstructure:"ip"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	RedisUser  RedisConfig    `mapstructure:"redis"`
}

// Chat definition chat_service YAML structure
type Chat struct {
	Port        string
	MongoSQL    DatabaseConfig `mapstructure:"mongo"`
	Redis       RedisConfig    `mapstructure:"redis"`
	UserService ServiceConfig  `mapstructure:"user"`
}

// Card definition card_service YAML structure
type Card struct {
	Port     string
	MongoSQL DatabaseConfig `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// Booking definition booking_service YAML structure
type Booking struct {
	Port       string
	PostgreSQL DatabaseConfig `mapstructure:"pg"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Cache      CacheConfig    `mapstructure:"cache"`
}

// ServiceConfig definition service port & name
type ServiceConfig struct {
	IP   string `mapstructure:"service_ip"`
	Port string `mapstructure:"service_port"`
	Name string `mapstructure:"service_name"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}

// CacheConfig definition cache setting. TTL is in seconds,
// 0 means no expiry until explicit invalidate.
type CacheConfig struct {
	TTLSeconds int `mapstructure:"ttl_seconds"`
	ListMax    int `mapstructure:"list_max"`
}

// KafkaConfig definition kafka setting
type KafkaConfig struct {
	Brokers       []string `mapstructure:"brokers"`
	Topic         string   `mapstructure:"topic"`
	GroupID       string   `mapstructure:"group_id"`
	RetryInterval int      `mapstructure:"retry_interval"`
	RetryCount    int      `mapstructure:"retry_count"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}
