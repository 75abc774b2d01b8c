// Package endpoint turns the raw connection endpoints published by managed AWS services into
// structured connection descriptors.
//
// Providers publish endpoints in different shapes:
//
//	amqps://b-1234.mq.us-east-1.amazonaws.com:5671   // Amazon MQ
//	mydb.abc123.us-east-1.rds.amazonaws.com:5432      // RDS
//	redis.abc123.0001.use1.cache.amazonaws.com        // ElastiCache
//
// Resolve accepts all three and fills in the port from a per-kind default when the endpoint
// does not carry one:
//
//	d, err := endpoint.Resolve("amqps://broker.example.com", endpoint.KindBroker)
//	// d.Host == "broker.example.com", d.Port == 5671
package endpoint

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnknownKind is returned when the kind is outside the closed set of kinds.
	ErrUnknownKind = errors.New("unknown service kind")
	// ErrInvalidPort is returned when a port segment is not a number in 1-65535.
	ErrInvalidPort = errors.New("invalid port")
	// ErrEmptyEndpoint is returned when nothing is left after normalization.
	ErrEmptyEndpoint = errors.New("empty endpoint")
)

const schemeSeparator = "://"

// Descriptor is a resolved connection endpoint.
// User and Password are empty unless the raw endpoint was a URL carrying credentials.
type Descriptor struct {
	Host     string `json:"host"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Port     int    `json:"port"`
}

// HasCredentials reports whether the endpoint carried user info.
func (d Descriptor) HasCredentials() bool {
	return d.User != "" || d.Password != ""
}

// Address returns the bare host:port form of the descriptor.
// IPv6 hosts are bracketed, so the result is not re-resolvable through Resolve without a scheme.
func (d Descriptor) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// Resolver resolves endpoints and reports URL-parse fallbacks to its logger.
// The zero value is not usable; use NewResolver. A Resolver is safe for concurrent use.
type Resolver struct {
	log *zap.SugaredLogger
}

// NewResolver returns a Resolver logging to log. A nil logger discards diagnostics.
func NewResolver(log *zap.SugaredLogger) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{log: log}
}

var defaultResolver = NewResolver(nil)

// Resolve resolves raw with a resolver that discards diagnostics.
func Resolve(raw string, kind Kind) (Descriptor, error) {
	return defaultResolver.Resolve(raw, kind)
}

// Resolve parses raw into a Descriptor. A port missing from raw is filled from kind's default.
//
// Raw may be a URL (scheme://[user[:password]@]host[:port]), a host:port pair or a bare host.
// Quote characters are stripped first. A URL that fails to parse is retried as host:port or
// bare host. A string with more than one colon and no scheme is kept whole as the host.
func (r *Resolver) Resolve(raw string, kind Kind) (Descriptor, error) {
	defaultPort, err := DefaultPort(kind)
	if err != nil {
		return Descriptor{}, err
	}

	s := strings.ReplaceAll(raw, `"`, "")
	if s == "" {
		return Descriptor{}, ErrEmptyEndpoint
	}

	d, err := r.parse(s)
	if err != nil {
		return Descriptor{}, err
	}
	if d.Port == 0 {
		d.Port = defaultPort
	}
	return d, nil
}

func (r *Resolver) parse(s string) (Descriptor, error) {
	isURL := strings.Contains(s, schemeSeparator)
	if isURL {
		d, err := parseURL(s)
		if err == nil {
			return d, nil
		}
		r.log.Warnw("Failed to parse endpoint as URL, falling back", "endpoint", redact(s), "error", urlCause(err))
	}

	if parts := strings.Split(s, ":"); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
		port, err := parsePort(parts[1])
		if err == nil {
			return Descriptor{Host: parts[0], Port: port}, nil
		}
		// A malformed URL is recovered as a bare host.
		if !isURL {
			return Descriptor{}, fmt.Errorf("endpoint %q: %w", s, err)
		}
	}

	return Descriptor{Host: s}, nil
}

func parseURL(s string) (Descriptor, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Descriptor{}, err
	}
	if u.Hostname() == "" {
		return Descriptor{}, errors.New("missing host")
	}

	d := Descriptor{Host: u.Hostname()}
	if u.User != nil {
		d.User = u.User.Username()
		d.Password, _ = u.User.Password()
	}
	if p := u.Port(); p != "" {
		port, err := parsePort(p)
		if err != nil {
			return Descriptor{}, err
		}
		d.Port = port
	}
	return d, nil
}

// parsePort parses a base-10 port. Port 0 means "unspecified" and is later defaulted.
func parsePort(s string) (int, error) {
	if strings.TrimLeft(s, "0123456789") != "" {
		return 0, fmt.Errorf("%w %q", ErrInvalidPort, s)
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidPort, s)
	}
	if port > 65535 {
		return 0, fmt.Errorf("%w %d: out of range", ErrInvalidPort, port)
	}
	return port, nil
}

// urlCause strips the raw URL, which may carry a password, from a url.Parse error.
func urlCause(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// redact drops user info from an endpoint before it is logged.
func redact(s string) string {
	i := strings.Index(s, schemeSeparator)
	at := strings.LastIndex(s, "@")
	if i < 0 || at < i {
		return s
	}
	return s[:i+len(schemeSeparator)] + "***@" + s[at+1:]
}
