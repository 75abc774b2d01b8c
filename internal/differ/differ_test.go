package differ

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pontus "github.com/pontuslabs/pontus-infra"
)

func TestCompare(t *testing.T) {
	t1 := &pontus.Template{
		Resources: map[string]pontus.ResourceDef{
			"RedisCluster": {Type: "AWS::ElastiCache::CacheCluster", Properties: map[string]any{"CacheNodeType": "cache.t3.micro"}},
			"PostgresDb":   {Type: "AWS::RDS::DBInstance", Properties: map[string]any{"DBName": "pontus"}},
		},
	}

	t2 := &pontus.Template{
		Resources: map[string]pontus.ResourceDef{
			"RedisCluster":   {Type: "AWS::ElastiCache::CacheCluster", Properties: map[string]any{"CacheNodeType": "cache.t3.small"}},
			"RabbitMqBroker": {Type: "AWS::AmazonMQ::Broker", Properties: map[string]any{"EngineType": "RABBITMQ"}},
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, "PostgresDb", result.Diff.Removed[0].Resource)

	require.Len(t, result.Diff.Added, 1)
	assert.Equal(t, "RabbitMqBroker", result.Diff.Added[0].Resource)
	assert.Equal(t, "AWS::AmazonMQ::Broker", result.Diff.Added[0].Type)

	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "RedisCluster", result.Diff.Modified[0].Resource)
	assert.Equal(t, []string{"CacheNodeType modified"}, result.Diff.Modified[0].Changes)

	assert.Equal(t, pontus.DiffSummary{Added: 1, Removed: 1, Modified: 1, Total: 3}, result.Summary)
}

func TestCompareIdentical(t *testing.T) {
	template := &pontus.Template{
		Resources: map[string]pontus.ResourceDef{
			"Vpc": {Type: "AWS::EC2::VPC", Properties: map[string]any{"CidrBlock": "10.0.0.0/16"}},
		},
	}

	result, err := Compare(template, template, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)
}

func TestCompareTypeChange(t *testing.T) {
	t1 := &pontus.Template{Resources: map[string]pontus.ResourceDef{"Queue": {Type: "AWS::AmazonMQ::Broker"}}}
	t2 := &pontus.Template{Resources: map[string]pontus.ResourceDef{"Queue": {Type: "AWS::SQS::Queue"}}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Modified, 1)
	assert.Contains(t, result.Diff.Modified[0].Changes, "Type changed: AWS::AmazonMQ::Broker → AWS::SQS::Queue")
}

func TestCompare_NumbersFromParsedTemplate(t *testing.T) {
	built := &pontus.Template{Resources: map[string]pontus.ResourceDef{
		"RedisCluster": {Type: "AWS::ElastiCache::CacheCluster", Properties: map[string]any{"Port": int64(6379)}},
	}}
	parsed := &pontus.Template{Resources: map[string]pontus.ResourceDef{
		"RedisCluster": {Type: "AWS::ElastiCache::CacheCluster", Properties: map[string]any{"Port": float64(6379)}},
	}}

	result, err := Compare(built, parsed, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)
}

func TestCompare_DependsOnAndDeletionPolicy(t *testing.T) {
	t1 := &pontus.Template{Resources: map[string]pontus.ResourceDef{
		"PostgresDb": {Type: "AWS::RDS::DBInstance", DependsOn: []string{"B", "A"}},
	}}
	t2 := &pontus.Template{Resources: map[string]pontus.ResourceDef{
		"PostgresDb": {Type: "AWS::RDS::DBInstance", DependsOn: []string{"A", "B"}, DeletionPolicy: "Delete"},
	}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, []string{`DeletionPolicy changed: "" → "Delete"`}, result.Diff.Modified[0].Changes)
}

func TestCompare_ParametersAndOutputs(t *testing.T) {
	t1 := &pontus.Template{
		Parameters: map[string]pontus.Parameter{"DatabasePassword": {Type: "String"}},
		Outputs:    map[string]pontus.Output{"RedisPort": {Value: "6379"}},
	}
	t2 := &pontus.Template{
		Parameters: map[string]pontus.Parameter{"DatabasePassword": {Type: "String", NoEcho: true}},
		Outputs:    map[string]pontus.Output{"ApiUrl": {Value: "https://api.example.com"}},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, TypeParameter, result.Diff.Modified[0].Type)
	assert.Equal(t, []string{"NoEcho added"}, result.Diff.Modified[0].Changes)

	require.Len(t, result.Diff.Added, 1)
	assert.Equal(t, pontus.DiffEntry{Resource: "ApiUrl", Type: TypeOutput}, result.Diff.Added[0])
	require.Len(t, result.Diff.Removed, 1)
	assert.Equal(t, "RedisPort", result.Diff.Removed[0].Resource)
}

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name   string
		props1 map[string]any
		props2 map[string]any
		opts   Options
		want   []string
	}{
		{
			name:   "identical",
			props1: map[string]any{"Key": "value"},
			props2: map[string]any{"Key": "value"},
		},
		{
			name:   "added property",
			props1: map[string]any{},
			props2: map[string]any{"Key": "value"},
			want:   []string{"Key added"},
		},
		{
			name:   "removed property",
			props1: map[string]any{"Key": "value"},
			props2: map[string]any{},
			want:   []string{"Key removed"},
		},
		{
			name:   "nested property",
			props1: map[string]any{"Config": map[string]any{"Port": 80, "Path": "/health"}},
			props2: map[string]any{"Config": map[string]any{"Port": 443, "Path": "/health"}},
			want:   []string{"Config.Port modified"},
		},
		{
			name:   "intrinsic compared whole",
			props1: map[string]any{"VpcId": map[string]any{"Ref": "Vpc"}},
			props2: map[string]any{"VpcId": map[string]any{"Ref": "OtherVpc"}},
			want:   []string{"VpcId modified"},
		},
		{
			name:   "list order matters",
			props1: map[string]any{"Subnets": []any{"a", "b"}},
			props2: map[string]any{"Subnets": []any{"b", "a"}},
			want:   []string{"Subnets modified"},
		},
		{
			name:   "list order ignored",
			props1: map[string]any{"Subnets": []any{"a", "b"}},
			props2: map[string]any{"Subnets": []any{"b", "a"}},
			opts:   Options{IgnoreOrder: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := compareProperties("", tt.props1, tt.props2, tt.opts)
			assert.Equal(t, tt.want, changes)
		})
	}
}

func TestLoadTemplate_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"Resources":{"Vpc":{"Type":"AWS::EC2::VPC"}}}`), 0o644))
	yamlPath := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("Resources:\n  Vpc:\n    Type: AWS::EC2::VPC\n"), 0o644))

	result, err := CompareFiles(jsonPath, yamlPath, Options{})
	require.NoError(t, err)
	assert.Zero(t, result.Summary.Total)

	_, err = LoadTemplate(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

type fakeTemplateGetter struct {
	body  string
	err   error
	input *cloudformation.GetTemplateInput
}

func (f *fakeTemplateGetter) GetTemplate(_ context.Context, in *cloudformation.GetTemplateInput, _ ...func(*cloudformation.Options)) (*cloudformation.GetTemplateOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &cloudformation.GetTemplateOutput{TemplateBody: aws.String(f.body)}, nil
}

func TestFetchTemplate(t *testing.T) {
	client := &fakeTemplateGetter{body: `{"Resources":{"Vpc":{"Type":"AWS::EC2::VPC"}}}`}

	tmpl, err := FetchTemplate(context.Background(), client, "pontus-dev")
	require.NoError(t, err)
	assert.Equal(t, "AWS::EC2::VPC", tmpl.Resources["Vpc"].Type)
	assert.Equal(t, "pontus-dev", aws.ToString(client.input.StackName))

	_, err = FetchTemplate(context.Background(), &fakeTemplateGetter{err: errors.New("stack does not exist")}, "pontus-dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pontus-dev")
}
