// Package logs provides AWS CloudWatch Logs resource types.
package logs

// LogGroup represents AWS::Logs::LogGroup.
type LogGroup struct {
	LogGroupName    any   `json:"LogGroupName,omitempty"`
	RetentionInDays int   `json:"RetentionInDays,omitempty"`
	Tags            []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LogGroup) ResourceType() string { return "AWS::Logs::LogGroup" }
