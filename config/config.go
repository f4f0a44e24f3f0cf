package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig holds the settings used to sign and verify access tokens.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Password string `mapstructure:"password"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	DB       string `mapstructure:"db"`
	SSLMODE  string `mapstructure:"SSLMODE"`
	MaxConns int32  `mapstructure:"maxConns"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres PostgresConfig `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT   JWTConfig   `mapstructure:"jwt"`
	Kafka KafkaConfig `mapstructure:"kafka"`
	CORS  struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	RateLimit struct {
		AuthRequestsPerMinute int `mapstructure:"authRequestsPerMinute"`
	} `mapstructure:"rateLimit"`
}

// InitConfig loads config.yml (or the embedded copy) and applies environment
// overrides such as JWT_SECRETKEY or REPOSITORIES_POSTGRES_HOST.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about; the secret
	// has no value in config.yml on purpose.
	if err := v.BindEnv("jwt.secretKey", "JWT_SECRETKEY", "JWT_SECRET"); err != nil {
		return Config{}, fmt.Errorf("failed to bind jwt secret env: %w", err)
	}

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.SecretKey) == "" {
		errs = append(errs, errors.New("config: jwt.secretKey is required (set JWT_SECRETKEY)"))
	}
	if c.JWT.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("config: jwt.accessTokenTTL must be positive"))
	}
	if strings.TrimSpace(c.Repositories.Postgres.Host) == "" {
		errs = append(errs, errors.New("config: repositories.postgres.host is required"))
	}
	if strings.TrimSpace(c.Repositories.Postgres.DB) == "" {
		errs = append(errs, errors.New("config: repositories.postgres.db is required"))
	}
	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("config: server.HTTPPort is required"))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, errors.New("config: kafka.brokers and kafka.topic are required when kafka is enabled"))
	}
	return errors.Join(errs...)
}
