package template

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/intrinsics"
)

type testVPC struct {
	CidrBlock string `json:"CidrBlock,omitempty"`
}

func (testVPC) ResourceType() string { return "AWS::EC2::VPC" }

type testSubnet struct {
	VpcId     any    `json:"VpcId,omitempty"`
	CidrBlock string `json:"CidrBlock,omitempty"`
}

func (testSubnet) ResourceType() string { return "AWS::EC2::Subnet" }

type testService struct {
	Cluster any `json:"Cluster,omitempty"`
	Role    any `json:"Role,omitempty"`
}

func (testService) ResourceType() string { return "AWS::ECS::Service" }

func TestBuilder_Build_SimpleResource(t *testing.T) {
	b := New("network")
	b.Resource("Vpc", testVPC{CidrBlock: "10.0.0.0/16"})

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	assert.Equal(t, "network", tmpl.Description)
	require.Len(t, tmpl.Resources, 1)

	vpc := tmpl.Resources["Vpc"]
	assert.Equal(t, "AWS::EC2::VPC", vpc.Type)
	assert.Equal(t, "10.0.0.0/16", vpc.Properties["CidrBlock"])
}

func TestBuilder_Build_References(t *testing.T) {
	b := New("")
	vpc := b.Resource("Vpc", testVPC{CidrBlock: "10.0.0.0/16"})
	b.Resource("Subnet", testSubnet{VpcId: vpc.Ref(), CidrBlock: "10.0.1.0/24"})

	tmpl, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Ref": "Vpc"}, tmpl.Resources["Subnet"].Properties["VpcId"])

	resources, err := b.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Subnet", resources[0].Name)
	assert.Equal(t, []string{"Vpc"}, resources[0].Dependencies)
	assert.Empty(t, resources[1].Dependencies)
}

func TestBuilder_Resource_RecordsCaller(t *testing.T) {
	b := New("")
	b.Resource("Vpc", testVPC{})

	resources, err := b.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Contains(t, resources[0].File, "template_test.go")
	assert.Positive(t, resources[0].Line)
}

func TestBuilder_DependsOn(t *testing.T) {
	b := New("")
	vpc := b.Resource("Vpc", testVPC{})
	b.Resource("Service", testService{}, DependsOn(vpc, vpc))

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"Vpc"}, tmpl.Resources["Service"].DependsOn)
	assert.Nil(t, tmpl.Resources["Vpc"].DependsOn)
}

func TestBuilder_GetAtt(t *testing.T) {
	b := New("")
	role := Handle{name: "TaskRole"}
	b.Resource("TaskRole", testVPC{})
	b.Resource("Service", testService{Role: role.GetAtt("Arn")})

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"TaskRole", "Arn"}}, tmpl.Resources["Service"].Properties["Role"])
}

func TestBuilder_DuplicateResource(t *testing.T) {
	b := New("")
	b.Resource("Vpc", testVPC{})
	b.Resource("Vpc", testVPC{CidrBlock: "10.1.0.0/16"})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate resource Vpc")
}

func TestBuilder_ParameterResourceCollision(t *testing.T) {
	b := New("")
	b.Parameter("Environment", pontus.Parameter{})
	b.Resource("Environment", testVPC{})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collides with a parameter")
}

func TestBuilder_DetectCycle(t *testing.T) {
	b := New("")
	b.Resource("A", testService{Cluster: intrinsics.Ref{LogicalName: "B"}})
	b.Resource("B", testService{Cluster: intrinsics.Ref{LogicalName: "A"}})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
	assert.Contains(t, err.Error(), "template_test.go")
}

func TestBuilder_Parameters(t *testing.T) {
	b := New("")
	ref := b.Parameter("DatabasePassword", pontus.Parameter{NoEcho: true, Description: "master password"})
	assert.Equal(t, intrinsics.Ref{LogicalName: "DatabasePassword"}, ref)

	tmpl, err := b.Build()
	require.NoError(t, err)

	p := tmpl.Parameters["DatabasePassword"]
	assert.Equal(t, "String", p.Type)
	assert.True(t, p.NoEcho)
}

func TestBuilder_Outputs(t *testing.T) {
	b := New("")
	vpc := b.Resource("Vpc", testVPC{})
	b.Output("VpcId", "VPC", vpc.Ref(), intrinsics.Sub{String: "${AWS::StackName}-VpcId"})
	b.Output("Region", "", intrinsics.AWS_REGION, nil)

	tmpl, err := b.Build()
	require.NoError(t, err)

	out := tmpl.Outputs["VpcId"]
	assert.Equal(t, map[string]any{"Ref": "Vpc"}, out.Value)
	require.NotNil(t, out.Export)
	assert.Equal(t, map[string]any{"Fn::Sub": "${AWS::StackName}-VpcId"}, out.Export.Name)
	assert.Nil(t, tmpl.Outputs["Region"].Export)
}

func TestToJSON(t *testing.T) {
	b := New("")
	b.Resource("Vpc", testVPC{CidrBlock: "10.0.0.0/16"})
	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToJSON(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2010-09-09", parsed["AWSTemplateFormatVersion"])
	assert.Contains(t, string(data), "\n  ")
}

func TestToYAML(t *testing.T) {
	b := New("")
	vpc := b.Resource("Vpc", testVPC{CidrBlock: "10.0.0.0/16"})
	b.Resource("Subnet", testSubnet{VpcId: vpc.Ref()})
	tmpl, err := b.Build()
	require.NoError(t, err)

	data, err := ToYAML(tmpl)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, yaml.Unmarshal(data, &parsed))
	resources := parsed["Resources"].(map[string]any)
	subnet := resources["Subnet"].(map[string]any)
	props := subnet["Properties"].(map[string]any)
	assert.Equal(t, map[string]any{"Ref": "Vpc"}, props["VpcId"])
}

func TestBuilder_UndefinedReference(t *testing.T) {
	b := New("")
	b.Resource("Subnet", testSubnet{VpcId: intrinsics.Ref{LogicalName: "MissingVpc"}})

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references undefined MissingVpc")
}

func TestBuilder_ParameterReferenceIsDefined(t *testing.T) {
	b := New("")
	cidr := b.Parameter("VpcCidr", pontus.Parameter{Default: "10.0.0.0/16"})
	b.Resource("Vpc", testSubnet{CidrBlock: "x", VpcId: cidr})

	_, err := b.Build()
	require.NoError(t, err)
}

func TestBuilder_DeletionPolicy(t *testing.T) {
	b := New("")
	b.Resource("Vpc", testVPC{}, DeletionPolicy("Delete"))

	tmpl, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "Delete", tmpl.Resources["Vpc"].DeletionPolicy)
}
