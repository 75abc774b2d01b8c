package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lex00/cfn-lint-go/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pontus "github.com/pontuslabs/pontus-infra"
)

func TestCfnLintResult_TotalIssues(t *testing.T) {
	tests := []struct {
		name     string
		result   CfnLintResult
		expected int
	}{
		{
			name:     "empty result",
			result:   CfnLintResult{},
			expected: 0,
		},
		{
			name: "errors only",
			result: CfnLintResult{
				Errors: []string{"error1", "error2"},
			},
			expected: 2,
		},
		{
			name: "mixed issues",
			result: CfnLintResult{
				Errors:        []string{"error1"},
				Warnings:      []string{"warning1", "warning2"},
				Informational: []string{"info1"},
			},
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.TotalIssues())
		})
	}
}

func TestFormatMatch(t *testing.T) {
	tests := []struct {
		name     string
		match    lint.Match
		expected string
	}{
		{
			name: "simple match",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "E3012"},
				Message: "Property has wrong type",
			},
			expected: "E3012: Property has wrong type",
		},
		{
			name: "match with path",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "W2001"},
				Message: "Parameter not used",
				Location: lint.MatchLocation{
					Path: []any{"Resources", "PostgresDb", "Properties"},
				},
			},
			expected: "W2001: Parameter not used (at Resources/PostgresDb/Properties)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMatch(tt.match))
		})
	}
}

func TestCheckReferences(t *testing.T) {
	tmpl := &pontus.Template{
		Parameters: map[string]pontus.Parameter{
			"DatabasePassword": {Type: "String"},
			"Unused":           {Type: "String"},
		},
		Resources: map[string]pontus.ResourceDef{
			"Vpc": {Type: "AWS::EC2::VPC"},
			"PostgresDb": {
				Type: "AWS::RDS::DBInstance",
				Properties: map[string]any{
					"MasterUserPassword": map[string]any{"Ref": "DatabasePassword"},
					"DBSubnetGroupName":  map[string]any{"Ref": "MissingSubnetGroup"},
					"Region":             map[string]any{"Ref": "AWS::Region"},
				},
				DependsOn: []string{"Vpc", "Gone"},
			},
		},
		Outputs: map[string]pontus.Output{
			"Password": {Value: map[string]any{"Fn::GetAtt": []any{"DatabasePassword", "Value"}}},
			"Url": {
				Value:  map[string]any{"Fn::Sub": "http://${LoadBalancer.DNSName}"},
				Export: &pontus.OutputExport{Name: map[string]any{"Fn::Sub": "${AWS::StackName}-Url"}},
			},
		},
	}

	errs, warnings := CheckReferences(tmpl)

	assert.Equal(t, []string{
		"Outputs.Password: GetAtt on parameter DatabasePassword",
		"Outputs.Url: reference to undefined LoadBalancer",
		"PostgresDb: DependsOn undefined resource Gone",
		"PostgresDb: reference to undefined MissingSubnetGroup",
	}, errs)
	assert.Equal(t, []string{"parameter Unused is never referenced"}, warnings)
}

func TestValidate_ReferencesOnly(t *testing.T) {
	tmpl := &pontus.Template{
		Resources: map[string]pontus.ResourceDef{
			"Vpc":    {Type: "AWS::EC2::VPC", Properties: map[string]any{"CidrBlock": "10.0.0.0/16"}},
			"Subnet": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"VpcId": map[string]any{"Ref": "Vpc"}}},
		},
	}

	result, err := Validate(tmpl, Options{SkipCfnLint: true})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Resources)
	assert.Empty(t, result.Errors)
}

func TestValidate_Failure(t *testing.T) {
	tmpl := &pontus.Template{
		Resources: map[string]pontus.ResourceDef{
			"Subnet": {Type: "AWS::EC2::Subnet", Properties: map[string]any{"VpcId": map[string]any{"Ref": "Vpc"}}},
		},
	}

	result, err := Validate(tmpl, Options{SkipCfnLint: true})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Subnet: reference to undefined Vpc"}, result.Errors)
}

func TestRunCfnLint_FileNotFound(t *testing.T) {
	result, err := RunCfnLint("/nonexistent/template.yaml")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Template file not found")
}

func TestRunCfnLint_ValidTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "template.yaml")

	validTemplate := `AWSTemplateFormatVersion: '2010-09-09'
Description: Test template
Resources:
  Vpc:
    Type: AWS::EC2::VPC
    Properties:
      CidrBlock: 10.0.0.0/16
`
	require.NoError(t, os.WriteFile(templatePath, []byte(validTemplate), 0o644))

	result, err := RunCfnLint(templatePath)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestLintTemplate(t *testing.T) {
	tmpl := &pontus.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]pontus.ResourceDef{
			"Vpc": {Type: "AWS::EC2::VPC", Properties: map[string]any{"CidrBlock": "10.0.0.0/16"}},
		},
	}

	result, err := LintTemplate(tmpl)
	require.NoError(t, err)
	assert.NotNil(t, result)
}
