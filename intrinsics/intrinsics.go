// Package intrinsics provides CloudFormation intrinsic functions and IAM policy types.
//
// The intrinsic types are re-exported from cloudformation-schema-go:
//
//	Ref{LogicalName: "Vpc"}               → {"Ref": "Vpc"}
//	Sub{String: "${AWS::StackName}-app"}  → {"Fn::Sub": "${AWS::StackName}-app"}
//	Select{Index: 0, List: GetAZs{}}      → {"Fn::Select": [0, {"Fn::GetAZs": ""}]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME, etc.
package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// Cidr represents a CloudFormation Fn::Cidr intrinsic function.
	Cidr = intrinsics.Cidr

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Param creates a Ref for a CloudFormation parameter.
var Param = intrinsics.Param

// AZ selects the n-th availability zone of the stack's region.
func AZ(n int) Select {
	return Select{Index: n, List: GetAZs{Region: ""}}
}

// SubnetCidr carves the n-th block of count subnets with the given host bits out of ipBlock.
func SubnetCidr(ipBlock any, n, count, hostBits int) Select {
	return Select{Index: n, List: Cidr{IPBlock: ipBlock, Count: count, CidrBits: hostBits}}
}

// Tags builds a tag list from alternating keys and values.
// A trailing key without a value is ignored.
func Tags(kv ...any) []any {
	tags := make([]any, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		tags = append(tags, Tag{Key: key, Value: kv[i+1]})
	}
	return tags
}
