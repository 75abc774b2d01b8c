// Package ecs provides AWS ECS resource types.
package ecs

// Cluster represents AWS::ECS::Cluster.
//
// Attributes: Arn.
type Cluster struct {
	ClusterName     any                       `json:"ClusterName,omitempty"`
	ClusterSettings []Cluster_ClusterSettings `json:"ClusterSettings,omitempty"`
	Tags            []any                     `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Cluster) ResourceType() string { return "AWS::ECS::Cluster" }

// Cluster_ClusterSettings is a cluster setting such as containerInsights.
type Cluster_ClusterSettings struct {
	Name  string `json:"Name"`
	Value string `json:"Value"`
}

// TaskDefinition represents AWS::ECS::TaskDefinition.
type TaskDefinition struct {
	Family                  any                                  `json:"Family,omitempty"`
	Cpu                     string                               `json:"Cpu,omitempty"`
	Memory                  string                               `json:"Memory,omitempty"`
	NetworkMode             string                               `json:"NetworkMode,omitempty"`
	RequiresCompatibilities []string                             `json:"RequiresCompatibilities,omitempty"`
	TaskRoleArn             any                                  `json:"TaskRoleArn,omitempty"`
	ExecutionRoleArn        any                                  `json:"ExecutionRoleArn,omitempty"`
	ContainerDefinitions    []TaskDefinition_ContainerDefinition `json:"ContainerDefinitions,omitempty"`
	Tags                    []any                                `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TaskDefinition) ResourceType() string { return "AWS::ECS::TaskDefinition" }

// TaskDefinition_ContainerDefinition describes one container of a task.
type TaskDefinition_ContainerDefinition struct {
	Name             string                           `json:"Name"`
	Image            any                              `json:"Image"`
	Essential        bool                             `json:"Essential,omitempty"`
	PortMappings     []TaskDefinition_PortMapping     `json:"PortMappings,omitempty"`
	Environment      []TaskDefinition_KeyValuePair    `json:"Environment,omitempty"`
	Secrets          []TaskDefinition_Secret          `json:"Secrets,omitempty"`
	HealthCheck      *TaskDefinition_HealthCheck      `json:"HealthCheck,omitempty"`
	LogConfiguration *TaskDefinition_LogConfiguration `json:"LogConfiguration,omitempty"`
}

// TaskDefinition_PortMapping maps a container port.
type TaskDefinition_PortMapping struct {
	ContainerPort int    `json:"ContainerPort"`
	Protocol      string `json:"Protocol,omitempty"`
}

// TaskDefinition_KeyValuePair is a plain environment variable.
type TaskDefinition_KeyValuePair struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// TaskDefinition_Secret injects a Secrets Manager value as an environment variable.
type TaskDefinition_Secret struct {
	Name      string `json:"Name"`
	ValueFrom any    `json:"ValueFrom"`
}

// TaskDefinition_HealthCheck is a container health check. Durations are in seconds.
type TaskDefinition_HealthCheck struct {
	Command     []string `json:"Command"`
	Interval    int      `json:"Interval,omitempty"`
	Timeout     int      `json:"Timeout,omitempty"`
	Retries     int      `json:"Retries,omitempty"`
	StartPeriod int      `json:"StartPeriod,omitempty"`
}

// TaskDefinition_LogConfiguration configures the container log driver.
type TaskDefinition_LogConfiguration struct {
	LogDriver string         `json:"LogDriver"`
	Options   map[string]any `json:"Options,omitempty"`
}

// Service represents AWS::ECS::Service.
//
// Attributes: Name, ServiceArn.
type Service struct {
	ServiceName                   any                           `json:"ServiceName,omitempty"`
	Cluster                       any                           `json:"Cluster,omitempty"`
	TaskDefinition                any                           `json:"TaskDefinition,omitempty"`
	DesiredCount                  int                           `json:"DesiredCount,omitempty"`
	LaunchType                    string                        `json:"LaunchType,omitempty"`
	EnableExecuteCommand          bool                          `json:"EnableExecuteCommand,omitempty"`
	HealthCheckGracePeriodSeconds int                           `json:"HealthCheckGracePeriodSeconds,omitempty"`
	NetworkConfiguration          *Service_NetworkConfiguration `json:"NetworkConfiguration,omitempty"`
	LoadBalancers                 []Service_LoadBalancer        `json:"LoadBalancers,omitempty"`
	Tags                          []any                         `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Service) ResourceType() string { return "AWS::ECS::Service" }

// Service_NetworkConfiguration is the awsvpc network configuration of a service.
type Service_NetworkConfiguration struct {
	AwsvpcConfiguration *Service_AwsVpcConfiguration `json:"AwsvpcConfiguration,omitempty"`
}

// Service_AwsVpcConfiguration places service tasks in subnets and security groups.
type Service_AwsVpcConfiguration struct {
	Subnets        []any  `json:"Subnets,omitempty"`
	SecurityGroups []any  `json:"SecurityGroups,omitempty"`
	AssignPublicIp string `json:"AssignPublicIp,omitempty"`
}

// Service_LoadBalancer registers a container port with a target group.
type Service_LoadBalancer struct {
	ContainerName  string `json:"ContainerName"`
	ContainerPort  int    `json:"ContainerPort"`
	TargetGroupArn any    `json:"TargetGroupArn"`
}
