// Package pontus declares the AWS infrastructure of the Pontus backend as Go values.
//
// Resources are plain Go structs from the resources/ packages. A stack builder assigns each
// one a logical ID and wires references between them:
//
//	vpc := b.Resource("Vpc", ec2.VPC{CidrBlock: "10.0.0.0/16"})
//	sg := b.Resource("LbSecurityGroup", ec2.SecurityGroup{
//	    VpcId: vpc.Ref(),
//	})
//
// The pontus-infra CLI synthesizes CloudFormation templates from these declarations and turns
// the endpoints the provisioned services publish into the application secret.
package pontus

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource.
// All resource types (ec2.VPC, rds.DBInstance, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::RDS::DBInstance")
	ResourceType() string
}

// AttrRef is a GetAtt reference to a resource attribute.
//
// When serialized to CloudFormation JSON, AttrRef becomes:
//
//	{"Fn::GetAtt": ["AppCluster", "Arn"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn", "Endpoint.Address")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// DeclaredResource is a resource registered with a stack builder.
type DeclaredResource struct {
	// Name is the logical ID
	Name string
	// Type is the CloudFormation type
	Type string
	// File is the source file of the declaration
	File string
	// Line is the line number of the declaration
	Line int
	// Dependencies are logical names of referenced resources and parameters
	Dependencies []string
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type           string         `json:"Type" yaml:"Type"`
	Properties     map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn      []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	DeletionPolicy string         `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type          string `json:"Type" yaml:"Type"`
	Description   string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default       any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues []any  `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	MinLength     *int   `json:"MinLength,omitempty" yaml:"MinLength,omitempty"`
	NoEcho        bool   `json:"NoEcho,omitempty" yaml:"NoEcho,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any           `json:"Value" yaml:"Value"`
	Export      *OutputExport `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// OutputExport names a cross-stack export.
type OutputExport struct {
	Name any `json:"Name" yaml:"Name"`
}

// BuildResult is the JSON output from `pontus-infra build`.
type BuildResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// LintResult is the JSON output from `pontus-infra lint`.
type LintResult struct {
	Success bool        `json:"success"`
	Issues  []LintIssue `json:"issues,omitempty"`
}

// LintIssue is a single linting issue.
type LintIssue struct {
	Resource string `json:"resource"`
	Path     string `json:"path,omitempty"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Rule     string `json:"rule"`
}

// ValidateResult is the JSON output from `pontus-infra validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `pontus-infra list`.
type ListResult struct {
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name string `json:"name"`
	Type string `json:"type"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// TemplateDiff lists resource-level differences between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry is one added, removed or modified resource.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `pontus-infra diff`.
type DiffResult struct {
	Success bool         `json:"success"`
	Diff    TemplateDiff `json:"diff"`
	Summary DiffSummary  `json:"summary"`
}
