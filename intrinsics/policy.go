package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the current IAM policy language version.
const PolicyVersion = "2012-10-17"

// Json is a shorthand for map[string]any, used for inline objects like Condition blocks.
//
//	Condition: Json{
//	    StringEquals: Json{"token.actions.githubusercontent.com:aud": "sts.amazonaws.com"},
//	}
type Json = map[string]any

// Any creates a []any slice from the given items.
// Use for fields typed as []any that accept mixed literals and intrinsics.
func Any(items ...any) []any {
	return items
}

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the current version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement is an IAM policy statement.
//
//	PolicyStatement{
//	    Effect:   "Allow",
//	    Action:   Any("ecs:UpdateService"),
//	    Resource: "*",
//	}
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// Allow returns an Allow statement for actions on resource.
func Allow(resource any, actions ...any) PolicyStatement {
	return PolicyStatement{Effect: "Allow", Action: actions, Resource: resource}
}

// AssumeRolePolicy returns the trust policy letting the given service principals assume a role.
//
//	AssumeRolePolicy("ecs-tasks.amazonaws.com")
func AssumeRolePolicy(services ...any) PolicyDocument {
	return NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal(services),
		Action:    "sts:AssumeRole",
	})
}

// WebIdentityPolicy returns the trust policy letting tokens from an OIDC provider assume a role.
// Tokens must carry audience and a subject matching subjectPattern.
func WebIdentityPolicy(providerArn any, issuer, audience, subjectPattern string) PolicyDocument {
	return NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: FederatedPrincipal{providerArn},
		Action:    "sts:AssumeRoleWithWebIdentity",
		Condition: Json{
			StringEquals: Json{issuer + ":aud": audience},
			StringLike:   Json{issuer + ":sub": subjectPattern},
		},
	})
}

// ServicePrincipal is a service principal such as ecs-tasks.amazonaws.com.
// Serializes to {"Service": ...}.
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	return marshalPrincipal("Service", p)
}

// AWSPrincipal is an account, role or user principal. Serializes to {"AWS": ...}.
type AWSPrincipal []any

// MarshalJSON serializes to {"AWS": ...} format.
func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	return marshalPrincipal("AWS", p)
}

// FederatedPrincipal is a federated identity principal. Serializes to {"Federated": ...}.
type FederatedPrincipal []any

// MarshalJSON serializes to {"Federated": ...} format.
func (p FederatedPrincipal) MarshalJSON() ([]byte, error) {
	return marshalPrincipal("Federated", p)
}

// A single principal is emitted as a scalar, several as a list.
func marshalPrincipal(key string, values []any) ([]byte, error) {
	if len(values) == 1 {
		return json.Marshal(map[string]any{key: values[0]})
	}
	return json.Marshal(map[string]any{key: values})
}

// IAM condition operators, used as keys in Condition maps.
const (
	StringEquals    = "StringEquals"
	StringNotEquals = "StringNotEquals"
	StringLike      = "StringLike"
	StringNotLike   = "StringNotLike"
	ArnEquals       = "ArnEquals"
	ArnLike         = "ArnLike"
	Bool            = "Bool"
	IpAddress       = "IpAddress"
)
