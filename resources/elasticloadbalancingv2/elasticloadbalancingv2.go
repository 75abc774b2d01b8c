// Package elasticloadbalancingv2 provides AWS Elastic Load Balancing v2 resource types.
package elasticloadbalancingv2

// LoadBalancer represents AWS::ElasticLoadBalancingV2::LoadBalancer.
//
// Attributes: DNSName, CanonicalHostedZoneID, LoadBalancerArn.
type LoadBalancer struct {
	Name           any    `json:"Name,omitempty"`
	Type           string `json:"Type,omitempty"`
	Scheme         string `json:"Scheme,omitempty"`
	IpAddressType  string `json:"IpAddressType,omitempty"`
	Subnets        []any  `json:"Subnets,omitempty"`
	SecurityGroups []any  `json:"SecurityGroups,omitempty"`
	Tags           []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LoadBalancer) ResourceType() string { return "AWS::ElasticLoadBalancingV2::LoadBalancer" }

// TargetGroup represents AWS::ElasticLoadBalancingV2::TargetGroup.
type TargetGroup struct {
	Name                       any                  `json:"Name,omitempty"`
	Port                       int                  `json:"Port,omitempty"`
	Protocol                   string               `json:"Protocol,omitempty"`
	TargetType                 string               `json:"TargetType,omitempty"`
	VpcId                      any                  `json:"VpcId,omitempty"`
	HealthCheckPath            string               `json:"HealthCheckPath,omitempty"`
	HealthCheckProtocol        string               `json:"HealthCheckProtocol,omitempty"`
	HealthCheckIntervalSeconds int                  `json:"HealthCheckIntervalSeconds,omitempty"`
	HealthyThresholdCount      int                  `json:"HealthyThresholdCount,omitempty"`
	Matcher                    *TargetGroup_Matcher `json:"Matcher,omitempty"`
	Tags                       []any                `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TargetGroup) ResourceType() string { return "AWS::ElasticLoadBalancingV2::TargetGroup" }

// TargetGroup_Matcher lists the HTTP codes counted as healthy.
type TargetGroup_Matcher struct {
	HttpCode string `json:"HttpCode,omitempty"`
}

// Listener represents AWS::ElasticLoadBalancingV2::Listener.
type Listener struct {
	LoadBalancerArn any                    `json:"LoadBalancerArn,omitempty"`
	Port            int                    `json:"Port,omitempty"`
	Protocol        string                 `json:"Protocol,omitempty"`
	SslPolicy       string                 `json:"SslPolicy,omitempty"`
	Certificates    []Listener_Certificate `json:"Certificates,omitempty"`
	DefaultActions  []Listener_Action      `json:"DefaultActions,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Listener) ResourceType() string { return "AWS::ElasticLoadBalancingV2::Listener" }

// Listener_Certificate attaches an ACM certificate to an HTTPS listener.
type Listener_Certificate struct {
	CertificateArn any `json:"CertificateArn"`
}

// Listener_Action is a listener default action (forward or redirect).
type Listener_Action struct {
	Type           string                   `json:"Type"`
	TargetGroupArn any                      `json:"TargetGroupArn,omitempty"`
	RedirectConfig *Listener_RedirectConfig `json:"RedirectConfig,omitempty"`
}

// Listener_RedirectConfig redirects requests, typically from HTTP to HTTPS.
type Listener_RedirectConfig struct {
	Protocol   string `json:"Protocol,omitempty"`
	Port       string `json:"Port,omitempty"`
	StatusCode string `json:"StatusCode"`
}
