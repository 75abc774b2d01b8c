// Package rds provides AWS RDS resource types.
package rds

// DBSubnetGroup represents AWS::RDS::DBSubnetGroup.
type DBSubnetGroup struct {
	DBSubnetGroupDescription any   `json:"DBSubnetGroupDescription,omitempty"`
	DBSubnetGroupName        any   `json:"DBSubnetGroupName,omitempty"`
	SubnetIds                []any `json:"SubnetIds,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBSubnetGroup) ResourceType() string { return "AWS::RDS::DBSubnetGroup" }

// DBInstance represents AWS::RDS::DBInstance.
//
// Attributes: Endpoint.Address, Endpoint.Port, DBInstanceArn.
type DBInstance struct {
	DBInstanceIdentifier any    `json:"DBInstanceIdentifier,omitempty"`
	Engine               string `json:"Engine,omitempty"`
	EngineVersion        string `json:"EngineVersion,omitempty"`
	DBInstanceClass      string `json:"DBInstanceClass,omitempty"`
	AllocatedStorage     any    `json:"AllocatedStorage,omitempty"`
	DBName               any    `json:"DBName,omitempty"`
	MasterUsername       any    `json:"MasterUsername,omitempty"`
	MasterUserPassword   any    `json:"MasterUserPassword,omitempty"`
	DBSubnetGroupName    any    `json:"DBSubnetGroupName,omitempty"`
	VPCSecurityGroups    []any  `json:"VPCSecurityGroups,omitempty"`
	PubliclyAccessible   bool   `json:"PubliclyAccessible,omitempty"`
	StorageEncrypted     bool   `json:"StorageEncrypted,omitempty"`
	MultiAZ              bool   `json:"MultiAZ,omitempty"`
	Tags                 []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBInstance) ResourceType() string { return "AWS::RDS::DBInstance" }
