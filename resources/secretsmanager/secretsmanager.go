// Package secretsmanager provides AWS Secrets Manager resource types.
package secretsmanager

// Secret represents AWS::SecretsManager::Secret.
//
// The secret value is written after provisioning, so templates declare the secret
// without SecretString.
type Secret struct {
	Name         any    `json:"Name,omitempty"`
	Description  string `json:"Description,omitempty"`
	KmsKeyId     any    `json:"KmsKeyId,omitempty"`
	SecretString any    `json:"SecretString,omitempty"`
	Tags         []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Secret) ResourceType() string { return "AWS::SecretsManager::Secret" }
