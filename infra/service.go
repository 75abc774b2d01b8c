package infra

import (
	"fmt"
	"strconv"

	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
	. "github.com/pontuslabs/pontus-infra/intrinsics"
	"github.com/pontuslabs/pontus-infra/resources/certificatemanager"
	"github.com/pontuslabs/pontus-infra/resources/ecs"
	"github.com/pontuslabs/pontus-infra/resources/elasticloadbalancingv2"
	"github.com/pontuslabs/pontus-infra/resources/iam"
	"github.com/pontuslabs/pontus-infra/resources/logs"
	"github.com/pontuslabs/pontus-infra/resources/route53"
	"github.com/pontuslabs/pontus-infra/resources/secretsmanager"
)

// Service holds the handles of the application service.
type Service struct {
	Secret       template.Handle
	Cluster      template.Handle
	LoadBalancer template.Handle
	FargateSvc   template.Handle
}

// APIHost is the public host name of the API.
func APIHost(cfg *config.Config) string {
	return "api." + cfg.Domain
}

// DeclareService declares the application secret, the TLS certificate, the load balancer,
// the ECS cluster with its Fargate service and the API DNS record.
func DeclareService(b *template.Builder, cfg *config.Config, n Network) Service {
	var s Service
	host := APIHost(cfg)

	// The value is written by `pontus-infra secrets sync` once the data services exist.
	s.Secret = b.Resource("AppSecret", secretsmanager.Secret{
		Name:        cfg.SecretName(),
		Description: "Pontus app secrets",
		Tags:        stackTags(cfg, "app-secrets"),
	})

	// ------------------------------------------------------------------------
	// Certificate
	// ------------------------------------------------------------------------

	cert := b.Resource("ApiCertificate", certificatemanager.Certificate{
		DomainName:       host,
		ValidationMethod: "DNS",
		DomainValidationOptions: []certificatemanager.Certificate_DomainValidationOption{{
			DomainName:   host,
			HostedZoneId: cfg.HostedZoneID,
		}},
		Tags: stackTags(cfg, "api-cert"),
	})

	// ------------------------------------------------------------------------
	// Load balancer
	// ------------------------------------------------------------------------

	s.LoadBalancer = b.Resource("LoadBalancer", elasticloadbalancingv2.LoadBalancer{
		Type:           "application",
		Scheme:         "internet-facing",
		Subnets:        n.PublicSubnetRefs(),
		SecurityGroups: []any{n.LoadBalancerSG.Ref()},
		Tags:           stackTags(cfg, "lb"),
	}, template.DependsOn(n.GatewayAttachment))

	targets := b.Resource("AppTargetGroup", elasticloadbalancingv2.TargetGroup{
		Port:                cfg.Service.ContainerPort,
		Protocol:            "HTTP",
		TargetType:          "ip",
		VpcId:               n.Vpc.Ref(),
		HealthCheckPath:     cfg.Service.HealthCheckPath,
		HealthCheckProtocol: "HTTP",
		Matcher:             &elasticloadbalancingv2.TargetGroup_Matcher{HttpCode: "200"},
		Tags:                stackTags(cfg, "app-tg"),
	})

	https := b.Resource("HttpsListener", elasticloadbalancingv2.Listener{
		LoadBalancerArn: s.LoadBalancer.Ref(),
		Port:            443,
		Protocol:        "HTTPS",
		SslPolicy:       "ELBSecurityPolicy-TLS13-1-2-2021-06",
		Certificates:    []elasticloadbalancingv2.Listener_Certificate{{CertificateArn: cert.Ref()}},
		DefaultActions: []elasticloadbalancingv2.Listener_Action{{
			Type:           "forward",
			TargetGroupArn: targets.Ref(),
		}},
	})

	b.Resource("HttpListener", elasticloadbalancingv2.Listener{
		LoadBalancerArn: s.LoadBalancer.Ref(),
		Port:            80,
		Protocol:        "HTTP",
		DefaultActions: []elasticloadbalancingv2.Listener_Action{{
			Type: "redirect",
			RedirectConfig: &elasticloadbalancingv2.Listener_RedirectConfig{
				Protocol:   "HTTPS",
				Port:       "443",
				StatusCode: "HTTP_301",
			},
		}},
	})

	// ------------------------------------------------------------------------
	// IAM
	// ------------------------------------------------------------------------

	taskRole := b.Resource("TaskRole", iam.Role{
		AssumeRolePolicyDocument: AssumeRolePolicy("ecs-tasks.amazonaws.com"),
		ManagedPolicyArns: []any{
			Sub{String: "arn:${AWS::Partition}:iam::aws:policy/CloudWatchLogsFullAccess"},
		},
		Policies: []iam.Role_Policy{{
			PolicyName: "pontus-task",
			PolicyDocument: NewPolicyDocument(
				Allow("*", "s3:ListBucket", "s3:GetObject", "s3:PutObject", "s3:DeleteObject"),
				Allow("*",
					"ssmmessages:CreateControlChannel",
					"ssmmessages:CreateDataChannel",
					"ssmmessages:OpenControlChannel",
					"ssmmessages:OpenDataChannel",
					"ssm:UpdateInstanceInformation",
				),
				Allow("*", "logs:CreateLogStream", "logs:DescribeLogGroups", "logs:DescribeLogStreams", "logs:PutLogEvents"),
				Allow(s.Secret.Ref(), "secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"),
				Allow("*", "bedrock:InvokeModel", "bedrock:InvokeModelWithResponseStream"),
			),
		}},
	})

	executionRole := b.Resource("ExecutionRole", iam.Role{
		AssumeRolePolicyDocument: AssumeRolePolicy("ecs-tasks.amazonaws.com"),
		ManagedPolicyArns: []any{
			Sub{String: "arn:${AWS::Partition}:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"},
		},
	})

	// ------------------------------------------------------------------------
	// ECS
	// ------------------------------------------------------------------------

	s.Cluster = b.Resource("AppCluster", ecs.Cluster{
		ClusterSettings: []ecs.Cluster_ClusterSettings{{Name: "containerInsights", Value: "enabled"}},
		Tags:            stackTags(cfg, "app-cluster"),
	})

	logGroup := b.Resource("AppLogGroup", logs.LogGroup{
		LogGroupName:    Sub{String: "/ecs/${AWS::StackName}"},
		RetentionInDays: 30,
	})

	port := cfg.Service.ContainerPort
	task := b.Resource("AppTaskDefinition", ecs.TaskDefinition{
		Family:                  Sub{String: "${AWS::StackName}-app"},
		Cpu:                     strconv.Itoa(cfg.Service.CPU),
		Memory:                  strconv.Itoa(cfg.Service.Memory),
		NetworkMode:             "awsvpc",
		RequiresCompatibilities: []string{"FARGATE"},
		TaskRoleArn:             taskRole.GetAtt("Arn"),
		ExecutionRoleArn:        executionRole.GetAtt("Arn"),
		ContainerDefinitions: []ecs.TaskDefinition_ContainerDefinition{{
			Name:         cfg.Service.ContainerName,
			Image:        cfg.Service.Image,
			Essential:    true,
			PortMappings: []ecs.TaskDefinition_PortMapping{{ContainerPort: port, Protocol: "tcp"}},
			Environment: []ecs.TaskDefinition_KeyValuePair{
				{Name: "AWS_REGION", Value: AWS_REGION},
				{Name: "STACK", Value: cfg.Environment},
				{Name: "BASE_URL", Value: "https://" + host},
			},
			HealthCheck: &ecs.TaskDefinition_HealthCheck{
				Command: []string{
					"CMD-SHELL",
					fmt.Sprintf("wget -q --spider http://localhost:%d%s || exit 1", port, cfg.Service.HealthCheckPath),
				},
				Interval:    30,
				Timeout:     5,
				Retries:     5,
				StartPeriod: 10,
			},
			LogConfiguration: &ecs.TaskDefinition_LogConfiguration{
				LogDriver: "awslogs",
				Options: map[string]any{
					"awslogs-group":         logGroup.Ref(),
					"awslogs-region":        AWS_REGION,
					"awslogs-stream-prefix": "app",
				},
			},
		}},
	})

	// Tasks pull configuration through the SSM endpoints, and the target group must be
	// attached to a listener before the service registers with it.
	s.FargateSvc = b.Resource("AppService", ecs.Service{
		Cluster:                       s.Cluster.Ref(),
		TaskDefinition:                task.Ref(),
		DesiredCount:                  cfg.Service.DesiredCount,
		LaunchType:                    "FARGATE",
		EnableExecuteCommand:          true,
		HealthCheckGracePeriodSeconds: 60,
		NetworkConfiguration: &ecs.Service_NetworkConfiguration{
			AwsvpcConfiguration: &ecs.Service_AwsVpcConfiguration{
				Subnets:        n.PrivateSubnetRefs(),
				SecurityGroups: []any{n.InternalSG.Ref()},
				AssignPublicIp: "DISABLED",
			},
		},
		LoadBalancers: []ecs.Service_LoadBalancer{{
			ContainerName:  cfg.Service.ContainerName,
			ContainerPort:  port,
			TargetGroupArn: targets.Ref(),
		}},
		Tags: stackTags(cfg, "app-service"),
	}, template.DependsOn(append([]template.Handle{https}, n.Endpoints...)...))

	// ------------------------------------------------------------------------
	// DNS
	// ------------------------------------------------------------------------

	b.Resource("ApiRecord", route53.RecordSet{
		HostedZoneId: cfg.HostedZoneID,
		Name:         host,
		Type:         "A",
		AliasTarget: &route53.RecordSet_AliasTarget{
			DNSName:              s.LoadBalancer.GetAtt("DNSName"),
			HostedZoneId:         s.LoadBalancer.GetAtt("CanonicalHostedZoneID"),
			EvaluateTargetHealth: true,
		},
	})

	return s
}
