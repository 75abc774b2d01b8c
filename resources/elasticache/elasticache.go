// Package elasticache provides AWS ElastiCache resource types.
package elasticache

// SubnetGroup represents AWS::ElastiCache::SubnetGroup.
type SubnetGroup struct {
	CacheSubnetGroupName any   `json:"CacheSubnetGroupName,omitempty"`
	Description          any   `json:"Description,omitempty"`
	SubnetIds            []any `json:"SubnetIds,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetGroup) ResourceType() string { return "AWS::ElastiCache::SubnetGroup" }

// CacheCluster represents AWS::ElastiCache::CacheCluster.
//
// Attributes: RedisEndpoint.Address, RedisEndpoint.Port.
type CacheCluster struct {
	ClusterName          any    `json:"ClusterName,omitempty"`
	Engine               string `json:"Engine,omitempty"`
	EngineVersion        string `json:"EngineVersion,omitempty"`
	CacheNodeType        string `json:"CacheNodeType,omitempty"`
	NumCacheNodes        int    `json:"NumCacheNodes,omitempty"`
	Port                 int    `json:"Port,omitempty"`
	CacheSubnetGroupName any    `json:"CacheSubnetGroupName,omitempty"`
	VpcSecurityGroupIds  []any  `json:"VpcSecurityGroupIds,omitempty"`
	Tags                 []any  `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r CacheCluster) ResourceType() string { return "AWS::ElastiCache::CacheCluster" }
