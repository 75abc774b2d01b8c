package infra

import (
	"strconv"

	pontus "github.com/pontuslabs/pontus-infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
	"github.com/pontuslabs/pontus-infra/resources/amazonmq"
	"github.com/pontuslabs/pontus-infra/resources/elasticache"
	"github.com/pontuslabs/pontus-infra/resources/rds"
)

// Parameter names of the credentials supplied at deploy time.
const (
	ParamDatabasePassword = "DatabasePassword"
	ParamBrokerPassword   = "BrokerPassword"
)

// Data holds the handles of the managed data services.
type Data struct {
	Redis    template.Handle
	Postgres template.Handle
	Broker   template.Handle
}

// DeclareData declares the Redis cluster, the PostgreSQL instance and the RabbitMQ broker,
// all in the private subnets behind the internal security group.
func DeclareData(b *template.Builder, cfg *config.Config, n Network) Data {
	var d Data
	internal := []any{n.InternalSG.Ref()}

	dbPassword := b.Parameter(ParamDatabasePassword, pontus.Parameter{
		Description: "Master password of the PostgreSQL instance",
		NoEcho:      true,
		MinLength:   intPtr(8),
	})
	brokerPassword := b.Parameter(ParamBrokerPassword, pontus.Parameter{
		Description: "Password of the RabbitMQ broker user",
		NoEcho:      true,
		MinLength:   intPtr(12),
	})

	// ------------------------------------------------------------------------
	// Redis
	// ------------------------------------------------------------------------

	redisSubnets := b.Resource("RedisSubnetGroup", elasticache.SubnetGroup{
		Description: "Private subnets of the Redis cluster",
		SubnetIds:   n.PrivateSubnetRefs(),
	})
	d.Redis = b.Resource("RedisCluster", elasticache.CacheCluster{
		Engine:               "redis",
		CacheNodeType:        cfg.Cache.NodeType,
		NumCacheNodes:        1,
		Port:                 6379,
		CacheSubnetGroupName: redisSubnets.Ref(),
		VpcSecurityGroupIds:  internal,
		Tags:                 stackTags(cfg, "redis"),
	})

	// ------------------------------------------------------------------------
	// PostgreSQL
	// ------------------------------------------------------------------------

	dbSubnets := b.Resource("DatabaseSubnetGroup", rds.DBSubnetGroup{
		DBSubnetGroupDescription: "Private subnets of the PostgreSQL instance",
		SubnetIds:                n.PrivateSubnetRefs(),
	})
	// Deleted without a final snapshot.
	d.Postgres = b.Resource("PostgresDb", rds.DBInstance{
		Engine:             "postgres",
		DBInstanceClass:    cfg.Database.InstanceClass,
		AllocatedStorage:   strconv.Itoa(cfg.Database.AllocatedStorage),
		DBName:             cfg.Database.Name,
		MasterUsername:     cfg.Database.User,
		MasterUserPassword: dbPassword,
		DBSubnetGroupName:  dbSubnets.Ref(),
		VPCSecurityGroups:  internal,
		StorageEncrypted:   true,
		Tags:               stackTags(cfg, "postgres"),
	}, template.DeletionPolicy("Delete"))

	// ------------------------------------------------------------------------
	// RabbitMQ
	// ------------------------------------------------------------------------

	d.Broker = b.Resource("RabbitMqBroker", amazonmq.Broker{
		BrokerName:              cfg.Project + "-" + cfg.Environment + "-rabbitmq-broker",
		EngineType:              "RabbitMQ",
		EngineVersion:           cfg.Broker.EngineVersion,
		HostInstanceType:        cfg.Broker.InstanceType,
		DeploymentMode:          "SINGLE_INSTANCE",
		PubliclyAccessible:      false,
		AutoMinorVersionUpgrade: true,
		SecurityGroups:          internal,
		SubnetIds:               []any{n.PrivateSubnets[0].Ref()},
		Users: []amazonmq.Broker_User{{
			Username: cfg.Broker.User,
			Password: brokerPassword,
		}},
		Tags: stackTags(cfg, "rabbitmq"),
	})

	return d
}

func intPtr(v int) *int {
	return &v
}
