package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("environment variable %q not set", key)
	}
	return v, nil
}

const sampleConfig = `
environment: dev
domain: pontus.example.com
hostedZoneId: Z123456
githubRepo: pontuslabs/core
database:
  name: pontus
  user: pontus
  password: env:POSTGRES_PASSWORD
broker:
  user: pontus
  password: env:MQ_PASSWORD
secrets:
  aesKey: env:AES_KEY
  jwtSecretKey: jwt
  license: lic
  deepinfraApiKey: key
`

func TestParse_ResolvesEnvAndDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig), mapResolver{
		"POSTGRES_PASSWORD": "pg-secret",
		"MQ_PASSWORD":       "mq-secret",
		"AES_KEY":           "aes",
	})
	require.NoError(t, err)

	assert.Equal(t, "pg-secret", cfg.Database.Password)
	assert.Equal(t, "mq-secret", cfg.Broker.Password)
	assert.Equal(t, "aes", cfg.Secrets.AESKey)

	assert.Equal(t, "pontus", cfg.Project)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "10.0.0.0/16", cfg.Network.Cidr)
	assert.Equal(t, 2, cfg.Network.AvailabilityZones)
	assert.Equal(t, "db.t3.micro", cfg.Database.InstanceClass)
	assert.Equal(t, 20, cfg.Database.AllocatedStorage)
	assert.Equal(t, "3.12.13", cfg.Broker.EngineVersion)
	assert.Equal(t, "mq.t3.micro", cfg.Broker.InstanceType)
	assert.Equal(t, "cache.t3.micro", cfg.Cache.NodeType)
	assert.Equal(t, 1024, cfg.Service.CPU)
	assert.Equal(t, 2048, cfg.Service.Memory)
	assert.Equal(t, 80, cfg.Service.ContainerPort)
	assert.Equal(t, "/health", cfg.Service.HealthCheckPath)
	assert.Equal(t, "deepinfra", cfg.Secrets.LLMProvider)

	assert.NoError(t, cfg.Validate())
	assert.NoError(t, cfg.ValidateCore())
	assert.NoError(t, cfg.ValidateSecrets())
	assert.Equal(t, "pontus-dev", cfg.StackName())
	assert.Equal(t, "pontus-dev-app-secrets", cfg.SecretName())
}

func TestParse_MissingEnv(t *testing.T) {
	_, err := Parse([]byte(sampleConfig), mapResolver{"POSTGRES_PASSWORD": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker.password")
	assert.Contains(t, err.Error(), "MQ_PASSWORD")
	assert.Contains(t, err.Error(), "secrets.aesKey")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("environment: [unterminated"), mapResolver{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidate_Missing(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "broker.user, database.name, database.user, domain, environment, hostedZoneId")

	err = cfg.ValidateCore()
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "githubRepo")
}

func TestValidateSecrets_DeepinfraKeyOnlyForDeepinfra(t *testing.T) {
	cfg := &Config{
		Database: Database{Password: "p"},
		Broker:   Broker{Password: "p"},
		Secrets:  AppSecrets{AESKey: "a", JWTSecretKey: "j", License: "l", LLMProvider: "bedrock"},
	}
	assert.NoError(t, cfg.ValidateSecrets())

	cfg.Secrets.LLMProvider = "deepinfra"
	err := cfg.ValidateSecrets()
	assert.ErrorIs(t, err, ErrMissingValue)
	assert.Contains(t, err.Error(), "secrets.deepinfraApiKey")
}

func TestLoad(t *testing.T) {
	t.Setenv("POSTGRES_PASSWORD", "pg")
	t.Setenv("MQ_PASSWORD", "mq")
	t.Setenv("AES_KEY", "aes")

	path := filepath.Join(t.TempDir(), "pontus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pg", cfg.Database.Password)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvResolver(t *testing.T) {
	t.Setenv("PONTUS_TEST_EMPTY", "")

	r := NewEnvResolver()
	v, err := r.Resolve("PONTUS_TEST_EMPTY")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = r.Resolve("PONTUS_TEST_DEFINITELY_UNSET")
	assert.Error(t, err)
}

func TestOptionalEnvResolver(t *testing.T) {
	t.Setenv("PONTUS_TEST_SET", "value")

	r := NewOptionalEnvResolver()
	v, err := r.Resolve("PONTUS_TEST_SET")
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	v, err = r.Resolve("PONTUS_TEST_DEFINITELY_UNSET")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestExpand(t *testing.T) {
	r := mapResolver{"X": "resolved"}

	v, err := expand(r, "env: X")
	require.NoError(t, err)
	assert.Equal(t, "resolved", v)

	v, err = expand(r, "literal")
	require.NoError(t, err)
	assert.Equal(t, "literal", v)
}
