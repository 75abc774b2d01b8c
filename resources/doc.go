// Package resources holds the CloudFormation resource types used by the Pontus stacks,
// one package per AWS service.
//
// Every type implements pontus.Resource. Properties that can carry an intrinsic function
// (Ref, Fn::GetAtt, Fn::Sub) are typed any; plain literals keep their Go type.
//
//	import "github.com/pontuslabs/pontus-infra/resources/ec2"
//
//	vpc := b.Resource("Vpc", ec2.VPC{CidrBlock: "10.0.0.0/16", EnableDnsSupport: true})
package resources
