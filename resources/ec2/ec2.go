// Package ec2 provides AWS EC2 networking resource types.
package ec2

// VPC represents AWS::EC2::VPC.
type VPC struct {
	CidrBlock          any    `json:"CidrBlock,omitempty"`
	EnableDnsHostnames bool   `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   bool   `json:"EnableDnsSupport,omitempty"`
	InstanceTenancy    string `json:"InstanceTenancy,omitempty"`
	Tags               []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPC) ResourceType() string { return "AWS::EC2::VPC" }

// Subnet represents AWS::EC2::Subnet.
type Subnet struct {
	VpcId               any   `json:"VpcId,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	MapPublicIpOnLaunch bool  `json:"MapPublicIpOnLaunch,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Subnet) ResourceType() string { return "AWS::EC2::Subnet" }

// InternetGateway represents AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r InternetGateway) ResourceType() string { return "AWS::EC2::InternetGateway" }

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	VpcId             any `json:"VpcId,omitempty"`
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCGatewayAttachment) ResourceType() string { return "AWS::EC2::VPCGatewayAttachment" }

// EIP represents AWS::EC2::EIP.
type EIP struct {
	Domain string `json:"Domain,omitempty"`
	Tags   []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r EIP) ResourceType() string { return "AWS::EC2::EIP" }

// NatGateway represents AWS::EC2::NatGateway.
type NatGateway struct {
	AllocationId any   `json:"AllocationId,omitempty"`
	SubnetId     any   `json:"SubnetId,omitempty"`
	Tags         []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r NatGateway) ResourceType() string { return "AWS::EC2::NatGateway" }

// RouteTable represents AWS::EC2::RouteTable.
type RouteTable struct {
	VpcId any   `json:"VpcId,omitempty"`
	Tags  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r RouteTable) ResourceType() string { return "AWS::EC2::RouteTable" }

// Route represents AWS::EC2::Route.
type Route struct {
	RouteTableId         any    `json:"RouteTableId,omitempty"`
	DestinationCidrBlock string `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any    `json:"GatewayId,omitempty"`
	NatGatewayId         any    `json:"NatGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Route) ResourceType() string { return "AWS::EC2::Route" }

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	SubnetId     any `json:"SubnetId,omitempty"`
	RouteTableId any `json:"RouteTableId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
type SecurityGroup struct {
	GroupDescription     string                  `json:"GroupDescription,omitempty"`
	GroupName            any                     `json:"GroupName,omitempty"`
	VpcId                any                     `json:"VpcId,omitempty"`
	SecurityGroupIngress []SecurityGroup_Ingress `json:"SecurityGroupIngress,omitempty"`
	SecurityGroupEgress  []SecurityGroup_Egress  `json:"SecurityGroupEgress,omitempty"`
	Tags                 []any                   `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroup) ResourceType() string { return "AWS::EC2::SecurityGroup" }

// SecurityGroup_Ingress is an inbound rule. IpProtocol "-1" means all traffic.
type SecurityGroup_Ingress struct {
	IpProtocol            string `json:"IpProtocol"`
	FromPort              int    `json:"FromPort,omitempty"`
	ToPort                int    `json:"ToPort,omitempty"`
	CidrIp                string `json:"CidrIp,omitempty"`
	SourceSecurityGroupId any    `json:"SourceSecurityGroupId,omitempty"`
	Description           string `json:"Description,omitempty"`
}

// SecurityGroup_Egress is an outbound rule.
type SecurityGroup_Egress struct {
	IpProtocol  string `json:"IpProtocol"`
	FromPort    int    `json:"FromPort,omitempty"`
	ToPort      int    `json:"ToPort,omitempty"`
	CidrIp      string `json:"CidrIp,omitempty"`
	Description string `json:"Description,omitempty"`
}

// SecurityGroupIngress represents AWS::EC2::SecurityGroupIngress.
// Rules that reference their own group are declared separately to avoid a self-reference cycle.
type SecurityGroupIngress struct {
	GroupId               any    `json:"GroupId,omitempty"`
	IpProtocol            string `json:"IpProtocol"`
	FromPort              int    `json:"FromPort,omitempty"`
	ToPort                int    `json:"ToPort,omitempty"`
	SourceSecurityGroupId any    `json:"SourceSecurityGroupId,omitempty"`
	Description           string `json:"Description,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroupIngress) ResourceType() string { return "AWS::EC2::SecurityGroupIngress" }

// VPCEndpoint represents AWS::EC2::VPCEndpoint.
type VPCEndpoint struct {
	VpcId             any    `json:"VpcId,omitempty"`
	ServiceName       any    `json:"ServiceName,omitempty"`
	VpcEndpointType   string `json:"VpcEndpointType,omitempty"`
	PrivateDnsEnabled bool   `json:"PrivateDnsEnabled,omitempty"`
	SubnetIds         []any  `json:"SubnetIds,omitempty"`
	SecurityGroupIds  []any  `json:"SecurityGroupIds,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCEndpoint) ResourceType() string { return "AWS::EC2::VPCEndpoint" }

// DHCPOptions represents AWS::EC2::DHCPOptions.
type DHCPOptions struct {
	DomainName        any      `json:"DomainName,omitempty"`
	DomainNameServers []string `json:"DomainNameServers,omitempty"`
	Tags              []any    `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DHCPOptions) ResourceType() string { return "AWS::EC2::DHCPOptions" }

// VPCDHCPOptionsAssociation represents AWS::EC2::VPCDHCPOptionsAssociation.
type VPCDHCPOptionsAssociation struct {
	VpcId         any `json:"VpcId,omitempty"`
	DhcpOptionsId any `json:"DhcpOptionsId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCDHCPOptionsAssociation) ResourceType() string {
	return "AWS::EC2::VPCDHCPOptionsAssociation"
}
