// Package amazonmq provides AWS Amazon MQ resource types.
package amazonmq

// Broker represents AWS::AmazonMQ::Broker.
//
// Attributes: Arn, AmqpEndpoints (RabbitMQ), ConsoleURLs.
// PubliclyAccessible is required, so it is typed any to keep an explicit false.
type Broker struct {
	BrokerName              any           `json:"BrokerName,omitempty"`
	EngineType              string        `json:"EngineType,omitempty"`
	EngineVersion           string        `json:"EngineVersion,omitempty"`
	HostInstanceType        string        `json:"HostInstanceType,omitempty"`
	DeploymentMode          string        `json:"DeploymentMode,omitempty"`
	PubliclyAccessible      any           `json:"PubliclyAccessible"`
	AutoMinorVersionUpgrade bool          `json:"AutoMinorVersionUpgrade,omitempty"`
	SecurityGroups          []any         `json:"SecurityGroups,omitempty"`
	SubnetIds               []any         `json:"SubnetIds,omitempty"`
	Users                   []Broker_User `json:"Users,omitempty"`
	Tags                    []any         `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Broker) ResourceType() string { return "AWS::AmazonMQ::Broker" }

// Broker_User is a broker user.
type Broker_User struct {
	Username any `json:"Username"`
	Password any `json:"Password"`
}
