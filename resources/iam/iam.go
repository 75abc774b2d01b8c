// Package iam provides AWS IAM resource types.
package iam

// Role represents AWS::IAM::Role.
//
// Attributes: Arn, RoleId.
type Role struct {
	RoleName                 any           `json:"RoleName,omitempty"`
	Description              string        `json:"Description,omitempty"`
	AssumeRolePolicyDocument any           `json:"AssumeRolePolicyDocument,omitempty"`
	ManagedPolicyArns        []any         `json:"ManagedPolicyArns,omitempty"`
	Policies                 []Role_Policy `json:"Policies,omitempty"`
	MaxSessionDuration       int           `json:"MaxSessionDuration,omitempty"`
	Tags                     []any         `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Role) ResourceType() string { return "AWS::IAM::Role" }

// Role_Policy is an inline role policy.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName"`
	PolicyDocument any `json:"PolicyDocument"`
}

// ManagedPolicy represents AWS::IAM::ManagedPolicy.
type ManagedPolicy struct {
	ManagedPolicyName any    `json:"ManagedPolicyName,omitempty"`
	Description       string `json:"Description,omitempty"`
	PolicyDocument    any    `json:"PolicyDocument,omitempty"`
	Roles             []any  `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r ManagedPolicy) ResourceType() string { return "AWS::IAM::ManagedPolicy" }

// OIDCProvider represents AWS::IAM::OIDCProvider.
//
// Attributes: Arn.
type OIDCProvider struct {
	Url            string   `json:"Url,omitempty"`
	ClientIdList   []string `json:"ClientIdList,omitempty"`
	ThumbprintList []string `json:"ThumbprintList,omitempty"`
	Tags           []any    `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r OIDCProvider) ResourceType() string { return "AWS::IAM::OIDCProvider" }
