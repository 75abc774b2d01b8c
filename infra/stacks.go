// Package infra declares the Pontus stacks: the application stack with its network, data
// services and Fargate service, and the account-wide core stack holding the CI identity.
package infra

import (
	"fmt"
	"sort"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
	. "github.com/pontuslabs/pontus-infra/intrinsics"
)

// Stack names.
const (
	StackApp  = "app"
	StackCore = "core"
)

// Stack declares the resources of one CloudFormation stack.
type Stack struct {
	Name        string
	Description string
	validate    func(*config.Config) error
	declare     func(*template.Builder, *config.Config)
}

// Builder validates cfg and returns a builder holding the stack's declarations.
func (s Stack) Builder(cfg *config.Config) (*template.Builder, error) {
	if err := s.validate(cfg); err != nil {
		return nil, fmt.Errorf("stack %s: %w", s.Name, err)
	}
	b := template.New(s.Description)
	s.declare(b, cfg)
	return b, nil
}

// DeployedName is the CloudFormation stack name the stack is deployed under.
func (s Stack) DeployedName(cfg *config.Config) string {
	if s.Name == StackApp {
		return cfg.StackName()
	}
	return cfg.Project + "-" + s.Name
}

// Build validates cfg and synthesizes the stack's template.
func (s Stack) Build(cfg *config.Config) (*pontus.Template, error) {
	b, err := s.Builder(cfg)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

var stacks = map[string]Stack{
	StackApp: {
		Name:        StackApp,
		Description: "Pontus application: network, data services and the core API on Fargate",
		validate:    (*config.Config).Validate,
		declare:     declareApp,
	},
	StackCore: {
		Name:        StackCore,
		Description: "Pontus account-wide resources: GitHub Actions deployment identity",
		validate:    (*config.Config).ValidateCore,
		declare:     declareCore,
	},
}

// Lookup returns the stack registered under name.
func Lookup(name string) (Stack, error) {
	s, ok := stacks[name]
	if !ok {
		return Stack{}, fmt.Errorf("unknown stack %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names returns the registered stack names, sorted.
func Names() []string {
	names := make([]string, 0, len(stacks))
	for name := range stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func declareApp(b *template.Builder, cfg *config.Config) {
	n := DeclareNetwork(b, cfg)
	d := DeclareData(b, cfg, n)
	s := DeclareService(b, cfg, n)

	out := func(key, description string, value any) {
		b.Output(key, description, value, exportName(key))
	}

	out(OutputVpcID, "VPC ID", n.Vpc.Ref())
	out(OutputPrivateSubnetIDs, "Private subnet IDs", Join{Delimiter: ",", Values: n.PrivateSubnetRefs()})
	out(OutputPublicSubnetIDs, "Public subnet IDs", Join{Delimiter: ",", Values: n.PublicSubnetRefs()})
	out(OutputInternalSecurityGroupID, "Security group of the service and data stores", n.InternalSG.Ref())

	out(OutputRedisEndpoint, "Redis endpoint address", d.Redis.GetAtt("RedisEndpoint.Address"))
	out(OutputRedisPort, "Redis endpoint port", d.Redis.GetAtt("RedisEndpoint.Port"))
	out(OutputDatabaseEndpoint, "PostgreSQL endpoint (host:port)", Join{
		Delimiter: ":",
		Values:    []any{d.Postgres.GetAtt("Endpoint.Address"), d.Postgres.GetAtt("Endpoint.Port")},
	})
	out(OutputDatabasePort, "PostgreSQL port", d.Postgres.GetAtt("Endpoint.Port"))
	out(OutputBrokerEndpoint, "RabbitMQ AMQPS endpoint", Select{Index: 0, List: d.Broker.GetAtt("AmqpEndpoints")})

	out(OutputSecretArn, "ARN of the application secret", s.Secret.Ref())
	out(OutputClusterName, "ECS cluster name", s.Cluster.Ref())
	out(OutputClusterArn, "ECS cluster ARN", s.Cluster.GetAtt("Arn"))
	out(OutputServiceName, "ECS service name", s.FargateSvc.GetAtt("Name"))
	out(OutputURL, "Load balancer URL", Sub{String: "http://${" + s.LoadBalancer.Name() + ".DNSName}"})
	out(OutputAPIURL, "Public API URL", "https://"+APIHost(cfg))
}

func declareCore(b *template.Builder, cfg *config.Config) {
	DeclareIdentity(b, cfg)
}
