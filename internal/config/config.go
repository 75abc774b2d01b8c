// Package config loads the pontus.yaml settings shared by the stacks and the secrets commands.
//
// Any string value may reference the environment:
//
//	database:
//	  password: env:POSTGRES_PASSWORD
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "pontus.yaml"

// ErrMissingValue is returned when a required setting is empty.
var ErrMissingValue = errors.New("missing required value")

// Config holds the settings of one environment.
type Config struct {
	Project      string `yaml:"project"`
	Environment  string `yaml:"environment"`
	Region       string `yaml:"region"`
	Domain       string `yaml:"domain"`
	HostedZoneID string `yaml:"hostedZoneId"`
	GithubRepo   string `yaml:"githubRepo"`

	Network  Network    `yaml:"network"`
	Database Database   `yaml:"database"`
	Broker   Broker     `yaml:"broker"`
	Cache    Cache      `yaml:"cache"`
	Service  Service    `yaml:"service"`
	Secrets  AppSecrets `yaml:"secrets"`
}

// Network configures the VPC.
type Network struct {
	Cidr              string `yaml:"cidr"`
	AvailabilityZones int    `yaml:"availabilityZones"`
}

// Database configures the PostgreSQL instance.
type Database struct {
	Name             string `yaml:"name"`
	User             string `yaml:"user"`
	Password         string `yaml:"password"`
	InstanceClass    string `yaml:"instanceClass"`
	AllocatedStorage int    `yaml:"allocatedStorage"`
}

// Broker configures the RabbitMQ broker.
type Broker struct {
	User          string `yaml:"user"`
	Password      string `yaml:"password"`
	EngineVersion string `yaml:"engineVersion"`
	InstanceType  string `yaml:"instanceType"`
}

// Cache configures the Redis cluster.
type Cache struct {
	NodeType string `yaml:"nodeType"`
}

// Service configures the Fargate service.
type Service struct {
	Image           string `yaml:"image"`
	ContainerName   string `yaml:"containerName"`
	CPU             int    `yaml:"cpu"`
	Memory          int    `yaml:"memory"`
	DesiredCount    int    `yaml:"desiredCount"`
	ContainerPort   int    `yaml:"containerPort"`
	HealthCheckPath string `yaml:"healthCheckPath"`
}

// AppSecrets are copied verbatim into the application secret.
type AppSecrets struct {
	AESKey          string `yaml:"aesKey"`
	JWTSecretKey    string `yaml:"jwtSecretKey"`
	License         string `yaml:"license"`
	LLMProvider     string `yaml:"llmProvider"`
	DeepinfraAPIKey string `yaml:"deepinfraApiKey"`
}

// Load reads path, resolves env: references and applies defaults.
// Unset environment variables are an error.
func Load(path string) (*Config, error) {
	return LoadWith(path, NewEnvResolver())
}

// LoadWith reads path and resolves env: references with r.
func LoadWith(path string, r Resolver) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, r)
}

// Parse decodes YAML config data, resolving env: references with r.
func Parse(data []byte, r Resolver) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.resolve(r); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *Config) resolve(r Resolver) error {
	fields := map[string]*string{
		"project":                 &c.Project,
		"environment":             &c.Environment,
		"region":                  &c.Region,
		"domain":                  &c.Domain,
		"hostedZoneId":            &c.HostedZoneID,
		"githubRepo":              &c.GithubRepo,
		"network.cidr":            &c.Network.Cidr,
		"database.name":           &c.Database.Name,
		"database.user":           &c.Database.User,
		"database.password":       &c.Database.Password,
		"database.instanceClass":  &c.Database.InstanceClass,
		"broker.user":             &c.Broker.User,
		"broker.password":         &c.Broker.Password,
		"broker.engineVersion":    &c.Broker.EngineVersion,
		"broker.instanceType":     &c.Broker.InstanceType,
		"cache.nodeType":          &c.Cache.NodeType,
		"service.image":           &c.Service.Image,
		"service.containerName":   &c.Service.ContainerName,
		"service.healthCheckPath": &c.Service.HealthCheckPath,
		"secrets.aesKey":          &c.Secrets.AESKey,
		"secrets.jwtSecretKey":    &c.Secrets.JWTSecretKey,
		"secrets.license":         &c.Secrets.License,
		"secrets.llmProvider":     &c.Secrets.LLMProvider,
		"secrets.deepinfraApiKey": &c.Secrets.DeepinfraAPIKey,
	}

	var errs []error
	for name, field := range fields {
		value, err := expand(r, *field)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		*field = value
	}
	return errors.Join(errs...)
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Project, "pontus")
	// Bedrock endpoints used by the service live in us-east-1.
	setDefault(&c.Region, "us-east-1")
	setDefault(&c.Network.Cidr, "10.0.0.0/16")
	if c.Network.AvailabilityZones == 0 {
		c.Network.AvailabilityZones = 2
	}
	setDefault(&c.Database.InstanceClass, "db.t3.micro")
	if c.Database.AllocatedStorage == 0 {
		c.Database.AllocatedStorage = 20
	}
	setDefault(&c.Broker.EngineVersion, "3.12.13")
	setDefault(&c.Broker.InstanceType, "mq.t3.micro")
	setDefault(&c.Cache.NodeType, "cache.t3.micro")
	setDefault(&c.Service.Image, "public.ecr.aws/g6m3b3n1/pontuslabs/core:latest")
	setDefault(&c.Service.ContainerName, "pontus-core")
	if c.Service.CPU == 0 {
		c.Service.CPU = 1024
	}
	if c.Service.Memory == 0 {
		c.Service.Memory = 2048
	}
	if c.Service.DesiredCount == 0 {
		c.Service.DesiredCount = 1
	}
	if c.Service.ContainerPort == 0 {
		c.Service.ContainerPort = 80
	}
	setDefault(&c.Service.HealthCheckPath, "/health")
	setDefault(&c.Secrets.LLMProvider, "deepinfra")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks the settings needed to synthesize the application stack.
func (c *Config) Validate() error {
	return required(map[string]string{
		"environment":   c.Environment,
		"domain":        c.Domain,
		"hostedZoneId":  c.HostedZoneID,
		"database.name": c.Database.Name,
		"database.user": c.Database.User,
		"broker.user":   c.Broker.User,
	})
}

// ValidateCore checks the settings needed to synthesize the account-wide core stack.
func (c *Config) ValidateCore() error {
	return required(map[string]string{
		"githubRepo": c.GithubRepo,
	})
}

// ValidateSecrets checks the settings copied into the application secret.
func (c *Config) ValidateSecrets() error {
	values := map[string]string{
		"database.password":    c.Database.Password,
		"broker.password":      c.Broker.Password,
		"secrets.aesKey":       c.Secrets.AESKey,
		"secrets.jwtSecretKey": c.Secrets.JWTSecretKey,
		"secrets.license":      c.Secrets.License,
	}
	if c.Secrets.LLMProvider == "deepinfra" {
		values["secrets.deepinfraApiKey"] = c.Secrets.DeepinfraAPIKey
	}
	return required(values)
}

func required(values map[string]string) error {
	var missing []string
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingValue, strings.Join(missing, ", "))
}

// StackName is the CloudFormation stack name of the application stack.
func (c *Config) StackName() string {
	return c.Project + "-" + c.Environment
}

// SecretName is the Secrets Manager name of the application secret.
func (c *Config) SecretName() string {
	return c.Project + "-" + c.Environment + "-app-secrets"
}
