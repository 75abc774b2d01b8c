package config

import (
	"fmt"
	"os"
	"strings"
)

// envPrefix marks a value that is read from the environment, e.g. "env:POSTGRES_PASSWORD".
const envPrefix = "env:"

// Resolver resolves the part of a value after its prefix.
type Resolver interface {
	Resolve(key string) (string, error)
}

// EnvResolver resolves values from environment variables.
// A variable that is not set is an error; a variable set to "" resolves to "".
type EnvResolver struct {
	lookup     func(string) (string, bool)
	allowUnset bool
}

// NewEnvResolver returns a resolver reading the process environment.
func NewEnvResolver() *EnvResolver {
	return &EnvResolver{lookup: os.LookupEnv}
}

// NewOptionalEnvResolver returns a resolver that resolves unset variables to "".
// Template synthesis uses it since credentials enter the stack as parameters.
func NewOptionalEnvResolver() *EnvResolver {
	return &EnvResolver{lookup: os.LookupEnv, allowUnset: true}
}

// Resolve returns the value of the environment variable key.
func (r *EnvResolver) Resolve(key string) (string, error) {
	value, found := r.lookup(key)
	if !found && !r.allowUnset {
		return "", fmt.Errorf("environment variable %q not set", key)
	}
	return value, nil
}

// expand resolves s if it carries the env: prefix and returns it unchanged otherwise.
func expand(r Resolver, s string) (string, error) {
	key, ok := strings.CutPrefix(s, envPrefix)
	if !ok {
		return s, nil
	}
	return r.Resolve(strings.TrimSpace(key))
}
