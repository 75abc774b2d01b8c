package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/intrinsics"
)

type testGroup struct {
	GroupDescription     string            `json:"GroupDescription,omitempty"`
	VpcId                any               `json:"VpcId,omitempty"`
	SecurityGroupIngress []testIngress     `json:"SecurityGroupIngress,omitempty"`
	Logging              *testLogging      `json:"Logging,omitempty"`
	Labels               map[string]string `json:"Labels,omitempty"`
	Role                 pontus.AttrRef    `json:"Role,omitempty"`
	Enabled              bool              `json:"Enabled,omitempty"`
	internal             string
}

type testIngress struct {
	IpProtocol string `json:"IpProtocol"`
	FromPort   int    `json:"FromPort"`
	ToPort     int    `json:"ToPort"`
}

type testLogging struct {
	Group string `json:"Group"`
}

func TestProperties_SimpleStruct(t *testing.T) {
	props, err := Properties(testGroup{GroupDescription: "load balancer", internal: "x"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"GroupDescription": "load balancer"}, props)
}

func TestProperties_Nested(t *testing.T) {
	props, err := Properties(&testGroup{
		SecurityGroupIngress: []testIngress{{IpProtocol: "tcp", FromPort: 443, ToPort: 443}},
		Logging:              &testLogging{Group: "/ecs/pontus"},
		Labels:               map[string]string{"team": "platform"},
	})
	require.NoError(t, err)

	ingress := props["SecurityGroupIngress"].([]any)
	require.Len(t, ingress, 1)
	assert.Equal(t, int64(443), ingress[0].(map[string]any)["FromPort"])
	assert.Equal(t, "/ecs/pontus", props["Logging"].(map[string]any)["Group"])
	assert.Equal(t, "platform", props["Labels"].(map[string]any)["team"])
}

func TestProperties_Intrinsics(t *testing.T) {
	props, err := Properties(testGroup{
		VpcId: intrinsics.Ref{LogicalName: "Vpc"},
		Role:  pontus.AttrRef{Resource: "TaskRole", Attribute: "Arn"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Ref": "Vpc"}, props["VpcId"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{"TaskRole", "Arn"}}, props["Role"])
}

func TestProperties_OmitsZeroValues(t *testing.T) {
	props, err := Properties(testGroup{})
	require.NoError(t, err)
	assert.Empty(t, props)

	props, err = Properties(testGroup{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, true, props["Enabled"])
}

func TestProperties_NonStruct(t *testing.T) {
	props, err := Properties("nope")
	require.NoError(t, err)
	assert.Nil(t, props)

	var nilGroup *testGroup
	props, err = Properties(nilGroup)
	require.NoError(t, err)
	assert.Nil(t, props)
}

func TestReferences(t *testing.T) {
	props := map[string]any{
		"VpcId":   map[string]any{"Ref": "Vpc"},
		"Region":  map[string]any{"Ref": "AWS::Region"},
		"RoleArn": map[string]any{"Fn::GetAtt": []any{"TaskRole", "Arn"}},
		"Subnets": []any{
			map[string]any{"Ref": "PrivateSubnet1"},
			map[string]any{"Ref": "PrivateSubnet2"},
			map[string]any{"Ref": "Vpc"},
		},
		"Name": map[string]any{"Fn::Sub": "${AWS::StackName}-${AppCluster}-${Database.Endpoint.Address}-${!Literal}"},
	}

	assert.Equal(t, []string{
		"AppCluster", "Database", "PrivateSubnet1", "PrivateSubnet2", "TaskRole", "Vpc",
	}, References(props))
}

func TestReferences_SubWithMap(t *testing.T) {
	props := map[string]any{
		"Url": map[string]any{"Fn::Sub": []any{
			"https://${Host}/${Path}",
			map[string]any{
				"Host": map[string]any{"Fn::GetAtt": []any{"LoadBalancer", "DNSName"}},
				"Path": "health",
			},
		}},
	}

	assert.Equal(t, []string{"LoadBalancer"}, References(props))
}

func TestReferences_GetAttDottedString(t *testing.T) {
	assert.Equal(t, []string{"Broker"}, References(map[string]any{"Fn::GetAtt": "Broker.Arn"}))
}

func TestReferences_None(t *testing.T) {
	assert.Empty(t, References(map[string]any{"CidrBlock": "10.0.0.0/16"}))
	assert.Empty(t, References(nil))
}

func TestVisit_Kinds(t *testing.T) {
	props := map[string]any{
		"VpcId":   map[string]any{"Ref": "Vpc"},
		"RoleArn": map[string]any{"Fn::GetAtt": []any{"TaskRole", "Arn"}},
		"Url":     map[string]any{"Fn::Sub": "http://${LoadBalancer.DNSName}/${Path}"},
	}

	kinds := make(map[string]Kind)
	Visit(props, func(name string, kind Kind) {
		kinds[name] = kind
	})

	assert.Equal(t, map[string]Kind{
		"Vpc":          KindRef,
		"TaskRole":     KindGetAtt,
		"LoadBalancer": KindGetAtt,
		"Path":         KindRef,
	}, kinds)
}
