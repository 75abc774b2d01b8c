// Package certificatemanager provides AWS Certificate Manager resource types.
package certificatemanager

// Certificate represents AWS::CertificateManager::Certificate.
// With DNS validation and a hosted zone per domain, CloudFormation creates the validation
// records and waits for issuance.
type Certificate struct {
	DomainName              any                                  `json:"DomainName,omitempty"`
	SubjectAlternativeNames []any                                `json:"SubjectAlternativeNames,omitempty"`
	ValidationMethod        string                               `json:"ValidationMethod,omitempty"`
	DomainValidationOptions []Certificate_DomainValidationOption `json:"DomainValidationOptions,omitempty"`
	Tags                    []any                                `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Certificate) ResourceType() string { return "AWS::CertificateManager::Certificate" }

// Certificate_DomainValidationOption names the hosted zone used to validate a domain.
type Certificate_DomainValidationOption struct {
	DomainName   any `json:"DomainName"`
	HostedZoneId any `json:"HostedZoneId,omitempty"`
}
