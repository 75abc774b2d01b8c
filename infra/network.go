package infra

import (
	"fmt"

	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
	. "github.com/pontuslabs/pontus-infra/intrinsics"
	"github.com/pontuslabs/pontus-infra/resources/ec2"
)

// subnetHostBits sizes every subnet as a /20 when the VPC is a /16.
const subnetHostBits = 12

// Network holds the handles later declarations reference.
//
//	VPC (10.0.0.0/16)
//	|
//	+-- Public Subnet AZ-n   -> Internet Gateway
//	|   +-- NAT Gateway (first public subnet only)
//	|
//	+-- Private Subnet AZ-n  -> NAT Gateway
//	    +-- ssm / ssmmessages / ec2messages interface endpoints
type Network struct {
	Vpc               template.Handle
	GatewayAttachment template.Handle
	PublicSubnets     []template.Handle
	PrivateSubnets    []template.Handle
	LoadBalancerSG    template.Handle
	InternalSG        template.Handle
	Endpoints         []template.Handle
}

// PrivateSubnetRefs returns Refs to the private subnets.
func (n Network) PrivateSubnetRefs() []any {
	return refs(n.PrivateSubnets)
}

// PublicSubnetRefs returns Refs to the public subnets.
func (n Network) PublicSubnetRefs() []any {
	return refs(n.PublicSubnets)
}

func refs(handles []template.Handle) []any {
	out := make([]any, len(handles))
	for i, h := range handles {
		out[i] = h.Ref()
	}
	return out
}

// DeclareNetwork declares the VPC, its subnets and routing, the security groups and the
// SSM interface endpoints.
func DeclareNetwork(b *template.Builder, cfg *config.Config) Network {
	var n Network
	zones := cfg.Network.AvailabilityZones

	// ------------------------------------------------------------------------
	// VPC
	// ------------------------------------------------------------------------

	n.Vpc = b.Resource("Vpc", ec2.VPC{
		CidrBlock:          cfg.Network.Cidr,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		Tags:               stackTags(cfg, "vpc"),
	})

	dhcp := b.Resource("DhcpOptions", ec2.DHCPOptions{
		DomainNameServers: []string{"AmazonProvidedDNS"},
		Tags:              stackTags(cfg, "dhcp"),
	})
	b.Resource("DhcpOptionsAssociation", ec2.VPCDHCPOptionsAssociation{
		VpcId:         n.Vpc.Ref(),
		DhcpOptionsId: dhcp.Ref(),
	})

	igw := b.Resource("InternetGateway", ec2.InternetGateway{
		Tags: stackTags(cfg, "igw"),
	})
	n.GatewayAttachment = b.Resource("InternetGatewayAttachment", ec2.VPCGatewayAttachment{
		VpcId:             n.Vpc.Ref(),
		InternetGatewayId: igw.Ref(),
	})

	// ------------------------------------------------------------------------
	// Public subnets
	// ------------------------------------------------------------------------

	publicRoutes := b.Resource("PublicRouteTable", ec2.RouteTable{
		VpcId: n.Vpc.Ref(),
		Tags:  stackTags(cfg, "public"),
	})
	b.Resource("PublicDefaultRoute", ec2.Route{
		RouteTableId:         publicRoutes.Ref(),
		DestinationCidrBlock: "0.0.0.0/0",
		GatewayId:            igw.Ref(),
	}, template.DependsOn(n.GatewayAttachment))

	for i := 0; i < zones; i++ {
		name := fmt.Sprintf("PublicSubnet%d", i+1)
		subnet := b.Resource(name, ec2.Subnet{
			VpcId:               n.Vpc.Ref(),
			CidrBlock:           SubnetCidr(cfg.Network.Cidr, i, 2*zones, subnetHostBits),
			AvailabilityZone:    AZ(i),
			MapPublicIpOnLaunch: true,
			Tags:                stackTags(cfg, fmt.Sprintf("public-%d", i+1)),
		})
		b.Resource(name+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			SubnetId:     subnet.Ref(),
			RouteTableId: publicRoutes.Ref(),
		})
		n.PublicSubnets = append(n.PublicSubnets, subnet)
	}

	// A single NAT gateway in the first public subnet serves every private subnet.
	natIP := b.Resource("NatEip", ec2.EIP{
		Domain: "vpc",
		Tags:   stackTags(cfg, "nat"),
	}, template.DependsOn(n.GatewayAttachment))
	nat := b.Resource("NatGateway", ec2.NatGateway{
		AllocationId: natIP.GetAtt("AllocationId"),
		SubnetId:     n.PublicSubnets[0].Ref(),
		Tags:         stackTags(cfg, "nat"),
	})

	// ------------------------------------------------------------------------
	// Private subnets
	// ------------------------------------------------------------------------

	privateRoutes := b.Resource("PrivateRouteTable", ec2.RouteTable{
		VpcId: n.Vpc.Ref(),
		Tags:  stackTags(cfg, "private"),
	})
	b.Resource("PrivateDefaultRoute", ec2.Route{
		RouteTableId:         privateRoutes.Ref(),
		DestinationCidrBlock: "0.0.0.0/0",
		NatGatewayId:         nat.Ref(),
	})

	for i := 0; i < zones; i++ {
		name := fmt.Sprintf("PrivateSubnet%d", i+1)
		subnet := b.Resource(name, ec2.Subnet{
			VpcId:            n.Vpc.Ref(),
			CidrBlock:        SubnetCidr(cfg.Network.Cidr, zones+i, 2*zones, subnetHostBits),
			AvailabilityZone: AZ(i),
			Tags:             stackTags(cfg, fmt.Sprintf("private-%d", i+1)),
		})
		b.Resource(name+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			SubnetId:     subnet.Ref(),
			RouteTableId: privateRoutes.Ref(),
		})
		n.PrivateSubnets = append(n.PrivateSubnets, subnet)
	}

	// ------------------------------------------------------------------------
	// Security groups
	// ------------------------------------------------------------------------

	n.LoadBalancerSG = b.Resource("LoadBalancerSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "Public HTTP and HTTPS to the load balancer",
		VpcId:            n.Vpc.Ref(),
		SecurityGroupIngress: []ec2.SecurityGroup_Ingress{
			{IpProtocol: "tcp", FromPort: 80, ToPort: 80, CidrIp: "0.0.0.0/0"},
			{IpProtocol: "tcp", FromPort: 443, ToPort: 443, CidrIp: "0.0.0.0/0"},
		},
		SecurityGroupEgress: allEgress(),
		Tags:                stackTags(cfg, "lb-sg"),
	})

	n.InternalSG = b.Resource("InternalSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "Allow internal and outbound traffic",
		VpcId:            n.Vpc.Ref(),
		SecurityGroupIngress: []ec2.SecurityGroup_Ingress{{
			IpProtocol:            "tcp",
			FromPort:              cfg.Service.ContainerPort,
			ToPort:                cfg.Service.ContainerPort,
			SourceSecurityGroupId: n.LoadBalancerSG.Ref(),
			Description:           "load balancer to service",
		}},
		SecurityGroupEgress: allEgress(),
		Tags:                stackTags(cfg, "allow-internal-and-outbound"),
	})
	b.Resource("InternalSecurityGroupSelfIngress", ec2.SecurityGroupIngress{
		GroupId:               n.InternalSG.Ref(),
		IpProtocol:            "-1",
		SourceSecurityGroupId: n.InternalSG.Ref(),
		Description:           "members of the internal group",
	})

	// ------------------------------------------------------------------------
	// VPC endpoints
	// ------------------------------------------------------------------------

	for _, ep := range []struct{ name, service string }{
		{"SsmEndpoint", "ssm"},
		{"SsmMessagesEndpoint", "ssmmessages"},
		{"Ec2MessagesEndpoint", "ec2messages"},
	} {
		n.Endpoints = append(n.Endpoints, b.Resource(ep.name, ec2.VPCEndpoint{
			VpcId:             n.Vpc.Ref(),
			ServiceName:       Sub{String: "com.amazonaws.${AWS::Region}." + ep.service},
			VpcEndpointType:   "Interface",
			PrivateDnsEnabled: true,
			SubnetIds:         n.PrivateSubnetRefs(),
			SecurityGroupIds:  []any{n.InternalSG.Ref()},
		}))
	}

	return n
}

func allEgress() []ec2.SecurityGroup_Egress {
	return []ec2.SecurityGroup_Egress{{IpProtocol: "-1", CidrIp: "0.0.0.0/0"}}
}

// stackTags tags a resource with a stack-scoped Name plus project and environment.
func stackTags(cfg *config.Config, name string) []any {
	return Tags(
		"Name", Sub{String: "${AWS::StackName}-" + name},
		"Project", cfg.Project,
		"Environment", cfg.Environment,
	)
}
