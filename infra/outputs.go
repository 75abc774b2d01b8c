package infra

import (
	. "github.com/pontuslabs/pontus-infra/intrinsics"
)

// Output keys of the app stack. The secrets command reads these back from the deployed stack.
const (
	OutputClusterName             = "ClusterName"
	OutputClusterArn              = "EcsClusterArn"
	OutputServiceName             = "EcsServiceName"
	OutputVpcID                   = "VpcId"
	OutputPrivateSubnetIDs        = "PrivateSubnetIds"
	OutputPublicSubnetIDs         = "PublicSubnetIds"
	OutputInternalSecurityGroupID = "InternalSecurityGroupId"
	OutputRedisEndpoint           = "RedisEndpoint"
	OutputRedisPort               = "RedisPort"
	OutputDatabaseEndpoint        = "DatabaseEndpoint"
	OutputDatabasePort            = "DatabasePort"
	OutputBrokerEndpoint          = "RabbitMqEndpoint"
	OutputSecretArn               = "SecretsManagerArn"
	OutputURL                     = "Url"
	OutputAPIURL                  = "ApiUrl"
)

// Output keys of the core stack.
const (
	OutputDeployRoleArn   = "DeployRoleArn"
	OutputOIDCProviderArn = "GithubOidcProviderArn"
)

// exportName prefixes key with the stack name so exports stay unique per environment.
func exportName(key string) Sub {
	return Sub{String: "${AWS::StackName}-" + key}
}
