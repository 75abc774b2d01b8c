package infra_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
)

func testConfig() *config.Config {
	cfg := &config.Config{
		Environment:  "dev",
		Domain:       "pontus.example.com",
		HostedZoneID: "Z123456",
		GithubRepo:   "pontuslabs/core",
	}
	cfg.Database.Name = "pontus"
	cfg.Database.User = "pontus"
	cfg.Broker.User = "pontus"
	cfg.ApplyDefaults()
	return cfg
}

func buildApp(t *testing.T, cfg *config.Config) *pontus.Template {
	t.Helper()
	stack, err := infra.Lookup(infra.StackApp)
	require.NoError(t, err)
	tmpl, err := stack.Build(cfg)
	require.NoError(t, err)
	return tmpl
}

func TestAppStack_Resources(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	expected := map[string]string{
		"Vpc":                       "AWS::EC2::VPC",
		"InternetGateway":           "AWS::EC2::InternetGateway",
		"NatGateway":                "AWS::EC2::NatGateway",
		"PublicSubnet1":             "AWS::EC2::Subnet",
		"PrivateSubnet2":            "AWS::EC2::Subnet",
		"InternalSecurityGroup":     "AWS::EC2::SecurityGroup",
		"SsmEndpoint":               "AWS::EC2::VPCEndpoint",
		"RedisCluster":              "AWS::ElastiCache::CacheCluster",
		"PostgresDb":                "AWS::RDS::DBInstance",
		"RabbitMqBroker":            "AWS::AmazonMQ::Broker",
		"AppSecret":                 "AWS::SecretsManager::Secret",
		"ApiCertificate":            "AWS::CertificateManager::Certificate",
		"LoadBalancer":              "AWS::ElasticLoadBalancingV2::LoadBalancer",
		"HttpsListener":             "AWS::ElasticLoadBalancingV2::Listener",
		"AppTaskDefinition":         "AWS::ECS::TaskDefinition",
		"AppService":                "AWS::ECS::Service",
		"ApiRecord":                 "AWS::Route53::RecordSet",
		"LoadBalancerSecurityGroup": "AWS::EC2::SecurityGroup",
	}
	for name, typ := range expected {
		res, ok := tmpl.Resources[name]
		if assert.True(t, ok, "missing %s", name) {
			assert.Equal(t, typ, res.Type, name)
		}
	}

	assert.NotContains(t, tmpl.Resources, "GithubActionsRole")
}

func TestAppStack_Parameters(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	require.Len(t, tmpl.Parameters, 2)
	for _, name := range []string{infra.ParamDatabasePassword, infra.ParamBrokerPassword} {
		p := tmpl.Parameters[name]
		assert.True(t, p.NoEcho, name)
		assert.Equal(t, "String", p.Type, name)
	}
}

func TestAppStack_Outputs(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	for _, key := range []string{
		infra.OutputClusterName, infra.OutputClusterArn, infra.OutputServiceName,
		infra.OutputVpcID, infra.OutputPrivateSubnetIDs, infra.OutputPublicSubnetIDs,
		infra.OutputInternalSecurityGroupID, infra.OutputRedisEndpoint, infra.OutputRedisPort,
		infra.OutputDatabaseEndpoint, infra.OutputDatabasePort, infra.OutputBrokerEndpoint,
		infra.OutputSecretArn, infra.OutputURL, infra.OutputAPIURL,
	} {
		out, ok := tmpl.Outputs[key]
		if !assert.True(t, ok, "missing output %s", key) {
			continue
		}
		require.NotNil(t, out.Export, key)
		assert.Equal(t, map[string]any{"Fn::Sub": "${AWS::StackName}-" + key}, out.Export.Name)
	}

	assert.Equal(t, "https://api.pontus.example.com", tmpl.Outputs[infra.OutputAPIURL].Value)
	assert.Equal(t,
		map[string]any{"Fn::GetAtt": []any{"RedisCluster", "RedisEndpoint.Address"}},
		tmpl.Outputs[infra.OutputRedisEndpoint].Value)
	assert.Equal(t,
		map[string]any{"Fn::Join": []any{":", []any{
			map[string]any{"Fn::GetAtt": []any{"PostgresDb", "Endpoint.Address"}},
			map[string]any{"Fn::GetAtt": []any{"PostgresDb", "Endpoint.Port"}},
		}}},
		tmpl.Outputs[infra.OutputDatabaseEndpoint].Value)
}

func TestAppStack_SubnetsFollowAvailabilityZones(t *testing.T) {
	cfg := testConfig()
	cfg.Network.AvailabilityZones = 3
	tmpl := buildApp(t, cfg)

	subnets := 0
	for _, res := range tmpl.Resources {
		if res.Type == "AWS::EC2::Subnet" {
			subnets++
		}
	}
	assert.Equal(t, 6, subnets)
	assert.Contains(t, tmpl.Resources, "PrivateSubnet3")
}

func TestAppStack_ServiceWiring(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	svc := tmpl.Resources["AppService"]
	assert.Contains(t, svc.DependsOn, "HttpsListener")
	assert.Contains(t, svc.DependsOn, "SsmEndpoint")
	assert.Equal(t, true, svc.Properties["EnableExecuteCommand"])

	network := svc.Properties["NetworkConfiguration"].(map[string]any)
	vpc := network["AwsvpcConfiguration"].(map[string]any)
	assert.Equal(t, "DISABLED", vpc["AssignPublicIp"])
	assert.Equal(t, []any{map[string]any{"Ref": "InternalSecurityGroup"}}, vpc["SecurityGroups"])

	task := tmpl.Resources["AppTaskDefinition"]
	containers := task.Properties["ContainerDefinitions"].([]any)
	require.Len(t, containers, 1)
	container := containers[0].(map[string]any)
	assert.Equal(t, "pontus-core", container["Name"])

	health := container["HealthCheck"].(map[string]any)
	assert.Equal(t,
		[]any{"CMD-SHELL", "wget -q --spider http://localhost:80/health || exit 1"},
		health["Command"])
}

func TestAppStack_DatabaseDeletionPolicy(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	db := tmpl.Resources["PostgresDb"]
	assert.Equal(t, "Delete", db.DeletionPolicy)
	assert.Equal(t, map[string]any{"Ref": infra.ParamDatabasePassword}, db.Properties["MasterUserPassword"])
	assert.Equal(t, true, db.Properties["StorageEncrypted"])

	broker := tmpl.Resources["RabbitMqBroker"]
	assert.Equal(t, false, broker.Properties["PubliclyAccessible"])
}

func TestAppStack_TemplateJSON(t *testing.T) {
	tmpl := buildApp(t, testConfig())

	data, err := template.ToJSON(tmpl)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, template.FormatVersion, decoded["AWSTemplateFormatVersion"])
	assert.Contains(t, string(data), `"Fn::GetAtt"`)
}

func TestAppStack_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Domain = ""

	stack, err := infra.Lookup(infra.StackApp)
	require.NoError(t, err)
	_, err = stack.Build(cfg)
	require.ErrorIs(t, err, config.ErrMissingValue)
	assert.Contains(t, err.Error(), "domain")
}

func TestCoreStack(t *testing.T) {
	stack, err := infra.Lookup(infra.StackCore)
	require.NoError(t, err)

	tmpl, err := stack.Build(testConfig())
	require.NoError(t, err)

	require.Len(t, tmpl.Resources, 3)
	assert.Equal(t, "AWS::IAM::OIDCProvider", tmpl.Resources["GithubOidcProvider"].Type)
	assert.Equal(t, "AWS::IAM::ManagedPolicy", tmpl.Resources["EcsUpdatePolicy"].Type)

	role := tmpl.Resources["GithubActionsRole"]
	assert.Equal(t, infra.DeployRoleName, role.Properties["RoleName"])

	trust := role.Properties["AssumeRolePolicyDocument"].(map[string]any)
	statement := trust["Statement"].([]any)[0].(map[string]any)
	condition := statement["Condition"].(map[string]any)
	assert.Equal(t,
		map[string]any{"token.actions.githubusercontent.com:sub": "repo:pontuslabs/core:*"},
		condition["StringLike"])

	assert.Contains(t, tmpl.Outputs, infra.OutputDeployRoleArn)
}

func TestCoreStack_RequiresGithubRepo(t *testing.T) {
	cfg := testConfig()
	cfg.GithubRepo = ""

	stack, err := infra.Lookup(infra.StackCore)
	require.NoError(t, err)
	_, err = stack.Build(cfg)
	assert.ErrorIs(t, err, config.ErrMissingValue)
}

func TestStack_DeployedName(t *testing.T) {
	cfg := testConfig()

	app, err := infra.Lookup(infra.StackApp)
	require.NoError(t, err)
	assert.Equal(t, "pontus-dev", app.DeployedName(cfg))

	core, err := infra.Lookup(infra.StackCore)
	require.NoError(t, err)
	assert.Equal(t, "pontus-core", core.DeployedName(cfg))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"app", "core"}, infra.Names())

	_, err := infra.Lookup("edge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edge")
}
