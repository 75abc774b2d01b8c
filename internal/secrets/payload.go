// Package secrets builds the application secret from the outputs of a deployed stack and
// writes it to Secrets Manager.
package secrets

import (
	"fmt"

	"github.com/pontuslabs/pontus-infra/endpoint"
	"github.com/pontuslabs/pontus-infra/infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
)

// DatabaseSSLMode is the sslmode the application connects to PostgreSQL with.
const DatabaseSSLMode = "require"

// Payload is the JSON document stored in the application secret.
type Payload struct {
	AESKey           string `json:"AES_KEY"`
	JWTSecretKey     string `json:"JWT_SECRET_KEY"`
	DatabaseHost     string `json:"DATABASE_HOST"`
	DatabasePort     int    `json:"DATABASE_PORT"`
	DatabaseName     string `json:"DATABASE_NAME"`
	DatabaseUser     string `json:"DATABASE_USER"`
	DatabasePassword string `json:"DATABASE_PASSWORD"`
	DatabaseSSLMode  string `json:"DATABASE_SSL_MODE"`
	RabbitMQUser     string `json:"RABBITMQ_USER"`
	RabbitMQPassword string `json:"RABBITMQ_PASSWORD"`
	RabbitMQHost     string `json:"RABBITMQ_HOST"`
	RabbitMQPort     int    `json:"RABBITMQ_PORT"`
	RedisHost        string `json:"REDIS_HOST"`
	RedisPort        int    `json:"REDIS_PORT"`
	License          string `json:"LICENSE"`
	LLMProvider      string `json:"LLM_PROVIDER"`
	DeepinfraAPIKey  string `json:"DEEPINFRA_API_KEY,omitempty"`
}

// Build resolves the data service endpoints in outputs and combines them with the
// credentials from cfg.
func Build(cfg *config.Config, outputs Outputs, r *endpoint.Resolver) (Payload, error) {
	if r == nil {
		r = endpoint.NewResolver(nil)
	}

	db, err := resolve(r, outputs, infra.OutputDatabaseEndpoint, endpoint.KindDatabase)
	if err != nil {
		return Payload{}, err
	}
	broker, err := resolve(r, outputs, infra.OutputBrokerEndpoint, endpoint.KindBroker)
	if err != nil {
		return Payload{}, err
	}
	cache, err := resolve(r, outputs, infra.OutputRedisEndpoint, endpoint.KindCache)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		AESKey:           cfg.Secrets.AESKey,
		JWTSecretKey:     cfg.Secrets.JWTSecretKey,
		DatabaseHost:     db.Host,
		DatabasePort:     db.Port,
		DatabaseName:     cfg.Database.Name,
		DatabaseUser:     cfg.Database.User,
		DatabasePassword: cfg.Database.Password,
		DatabaseSSLMode:  DatabaseSSLMode,
		RabbitMQUser:     cfg.Broker.User,
		RabbitMQPassword: cfg.Broker.Password,
		RabbitMQHost:     broker.Host,
		RabbitMQPort:     broker.Port,
		RedisHost:        cache.Host,
		RedisPort:        cache.Port,
		License:          cfg.Secrets.License,
		LLMProvider:      cfg.Secrets.LLMProvider,
		DeepinfraAPIKey:  cfg.Secrets.DeepinfraAPIKey,
	}, nil
}

func resolve(r *endpoint.Resolver, outputs Outputs, key string, kind endpoint.Kind) (endpoint.Descriptor, error) {
	raw, err := outputs.Get(key)
	if err != nil {
		return endpoint.Descriptor{}, err
	}
	d, err := r.Resolve(raw, kind)
	if err != nil {
		return endpoint.Descriptor{}, fmt.Errorf("output %s: %w", key, err)
	}
	return d, nil
}
