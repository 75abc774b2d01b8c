package endpoint

import (
	"fmt"
	"strings"
)

// Kind is the type of managed service an endpoint belongs to.
// The set is closed: only the constants below are valid.
type Kind string

const (
	// KindCache is an ElastiCache Redis node.
	KindCache Kind = "cache"
	// KindDatabase is an RDS PostgreSQL instance.
	KindDatabase Kind = "relational-database"
	// KindBroker is an Amazon MQ RabbitMQ broker.
	KindBroker Kind = "message-broker"
)

// defaultPorts is used when the raw endpoint does not carry a port.
var defaultPorts = map[Kind]int{
	KindCache:    6379,
	KindDatabase: 5432,
	KindBroker:   5671, // AMQPS
}

// kindAliases maps engine names used in config files and on the command line to kinds.
var kindAliases = map[string]Kind{
	"cache":               KindCache,
	"redis":               KindCache,
	"relational-database": KindDatabase,
	"database":            KindDatabase,
	"postgres":            KindDatabase,
	"postgresql":          KindDatabase,
	"message-broker":      KindBroker,
	"broker":              KindBroker,
	"rabbitmq":            KindBroker,
	"amqp":                KindBroker,
}

// Kinds returns all valid kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindCache, KindDatabase, KindBroker}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := defaultPorts[k]
	return ok
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// DefaultPort returns the port used for k when an endpoint does not specify one.
func DefaultPort(k Kind) (int, error) {
	port, ok := defaultPorts[k]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
	}
	return port, nil
}

// ParseKind converts a kind name or engine alias (redis, postgres, rabbitmq) to a Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (want one of cache, relational-database, message-broker)", ErrUnknownKind, s)
	}
	return k, nil
}
