// Package route53 provides AWS Route 53 resource types.
package route53

// RecordSet represents AWS::Route53::RecordSet.
type RecordSet struct {
	HostedZoneId    any                    `json:"HostedZoneId,omitempty"`
	HostedZoneName  any                    `json:"HostedZoneName,omitempty"`
	Name            any                    `json:"Name,omitempty"`
	Type            string                 `json:"Type,omitempty"`
	TTL             any                    `json:"TTL,omitempty"`
	ResourceRecords []any                  `json:"ResourceRecords,omitempty"`
	AliasTarget     *RecordSet_AliasTarget `json:"AliasTarget,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r RecordSet) ResourceType() string { return "AWS::Route53::RecordSet" }

// RecordSet_AliasTarget points an alias record at another AWS resource.
type RecordSet_AliasTarget struct {
	DNSName              any  `json:"DNSName"`
	HostedZoneId         any  `json:"HostedZoneId"`
	EvaluateTargetHealth bool `json:"EvaluateTargetHealth,omitempty"`
}
