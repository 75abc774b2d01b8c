package lint

// Rules:
//
//	PON001: Security group ingress open to the internet on a non-web port
//	PON002: IAM policy statement allowing every action
//	PON003: Secret-like property set to a literal or a non-NoEcho parameter
//	PON004: Publicly accessible database or broker
//	PON005: Load balancer listener without TLS
//	PON006: Network resource without tags

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	pontus "github.com/pontuslabs/pontus-infra"
)

// AllRules returns all lint rules.
func AllRules() []Rule {
	return []Rule{
		OpenIngress{},
		WildcardAction{},
		PlaintextSecret{},
		PubliclyAccessible{},
		ListenerWithoutTLS{},
		MissingTags{},
	}
}

// OpenIngress detects ingress from 0.0.0.0/0 or ::/0 on ports other than 80 and 443.
type OpenIngress struct{}

func (r OpenIngress) ID() string { return "PON001" }
func (r OpenIngress) Description() string {
	return "Security group ingress open to the internet on a non-web port"
}

func (r OpenIngress) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue

	check := func(name, path string, rule map[string]any) {
		cidr, _ := rule["CidrIp"].(string)
		cidr6, _ := rule["CidrIpv6"].(string)
		if cidr != "0.0.0.0/0" && cidr6 != "::/0" {
			return
		}
		if proto, _ := rule["IpProtocol"].(string); proto == "-1" {
			issues = append(issues, Issue{
				Resource: name,
				Path:     path,
				Severity: SeverityError,
				Message:  "all traffic is open to the internet",
			})
			return
		}
		from, okFrom := toInt(rule["FromPort"])
		to, okTo := toInt(rule["ToPort"])
		if !okFrom || !okTo {
			return
		}
		for port := from; port <= to; port++ {
			if port != 80 && port != 443 {
				issues = append(issues, Issue{
					Resource: name,
					Path:     path,
					Severity: SeverityError,
					Message:  fmt.Sprintf("ports %d-%d are open to the internet", from, to),
				})
				return
			}
		}
	}

	for _, name := range resourcesOfType(tmpl, "AWS::EC2::SecurityGroup") {
		rules, _ := tmpl.Resources[name].Properties["SecurityGroupIngress"].([]any)
		for i, rule := range rules {
			if m, ok := rule.(map[string]any); ok {
				check(name, fmt.Sprintf("SecurityGroupIngress[%d]", i), m)
			}
		}
	}
	for _, name := range resourcesOfType(tmpl, "AWS::EC2::SecurityGroupIngress") {
		check(name, "", tmpl.Resources[name].Properties)
	}

	return issues
}

// WildcardAction detects IAM statements allowing "*" or every action of a service.
type WildcardAction struct{}

func (r WildcardAction) ID() string { return "PON002" }
func (r WildcardAction) Description() string {
	return "IAM policy statement allowing every action"
}

func (r WildcardAction) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue

	checkDocument := func(name, path string, doc any) {
		m, ok := doc.(map[string]any)
		if !ok {
			return
		}
		statements, _ := m["Statement"].([]any)
		for i, s := range statements {
			stmt, ok := s.(map[string]any)
			if !ok || stmt["Effect"] != "Allow" {
				continue
			}
			for _, action := range stringList(stmt["Action"]) {
				severity := ""
				switch {
				case action == "*":
					severity = SeverityError
				case strings.HasSuffix(action, ":*"):
					severity = SeverityWarning
				default:
					continue
				}
				issues = append(issues, Issue{
					Resource: name,
					Path:     fmt.Sprintf("%s.Statement[%d].Action", path, i),
					Severity: severity,
					Message:  fmt.Sprintf("statement allows %q", action),
				})
			}
		}
	}

	for _, name := range resourcesOfType(tmpl, "AWS::IAM::Role") {
		props := tmpl.Resources[name].Properties
		policies, _ := props["Policies"].([]any)
		for i, p := range policies {
			if policy, ok := p.(map[string]any); ok {
				checkDocument(name, fmt.Sprintf("Policies[%d].PolicyDocument", i), policy["PolicyDocument"])
			}
		}
	}
	for _, name := range resourcesOfType(tmpl, "AWS::IAM::ManagedPolicy", "AWS::IAM::Policy") {
		checkDocument(name, "PolicyDocument", tmpl.Resources[name].Properties["PolicyDocument"])
	}

	return issues
}

// PlaintextSecret detects password, secret and token properties whose value is a literal
// string or a Ref to a parameter without NoEcho.
type PlaintextSecret struct{}

func (r PlaintextSecret) ID() string { return "PON003" }
func (r PlaintextSecret) Description() string {
	return "Secret-like property set to a literal or a non-NoEcho parameter"
}

var secretWords = []string{"password", "secret", "token", "apikey"}

func (r PlaintextSecret) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue

	var walk func(name, path string, v any)
	walk = func(name, path string, v any) {
		switch val := v.(type) {
		case map[string]any:
			if ref, ok := val["Ref"].(string); ok && len(val) == 1 {
				if isSecretKey(lastKey(path)) {
					if p, isParam := tmpl.Parameters[ref]; isParam && !p.NoEcho {
						issues = append(issues, Issue{
							Resource: name,
							Path:     path,
							Severity: SeverityWarning,
							Message:  fmt.Sprintf("parameter %s should set NoEcho", ref),
						})
					}
				}
				return
			}
			for _, key := range sortedKeys(val) {
				walk(name, joinPath(path, key), val[key])
			}
		case []any:
			for i, elem := range val {
				walk(name, fmt.Sprintf("%s[%d]", path, i), elem)
			}
		case string:
			if val != "" && isSecretKey(lastKey(path)) {
				issues = append(issues, Issue{
					Resource: name,
					Path:     path,
					Severity: SeverityError,
					Message:  "secret value is written into the template",
				})
			}
		}
	}

	for _, name := range sortedKeys(tmpl.Resources) {
		walk(name, "", tmpl.Resources[name].Properties)
	}

	return issues
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range []string{"arn", "id", "name", "type"} {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}
	for _, word := range secretWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func lastKey(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.Index(path, "["); i >= 0 {
		path = path[:i]
	}
	return path
}

// PubliclyAccessible detects databases and brokers reachable from the internet.
type PubliclyAccessible struct{}

func (r PubliclyAccessible) ID() string { return "PON004" }
func (r PubliclyAccessible) Description() string {
	return "Publicly accessible database or broker"
}

func (r PubliclyAccessible) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(tmpl, "AWS::RDS::DBInstance", "AWS::RDS::DBCluster", "AWS::AmazonMQ::Broker") {
		if public, _ := tmpl.Resources[name].Properties["PubliclyAccessible"].(bool); public {
			issues = append(issues, Issue{
				Resource: name,
				Path:     "PubliclyAccessible",
				Severity: SeverityError,
				Message:  "data service is publicly accessible",
			})
		}
	}
	return issues
}

// ListenerWithoutTLS detects HTTPS listeners without certificates and plain HTTP listeners
// that forward traffic instead of redirecting it.
type ListenerWithoutTLS struct{}

func (r ListenerWithoutTLS) ID() string { return "PON005" }
func (r ListenerWithoutTLS) Description() string {
	return "Load balancer listener without TLS"
}

func (r ListenerWithoutTLS) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(tmpl, "AWS::ElasticLoadBalancingV2::Listener") {
		props := tmpl.Resources[name].Properties
		protocol, _ := props["Protocol"].(string)

		switch protocol {
		case "HTTPS", "TLS":
			if certs, _ := props["Certificates"].([]any); len(certs) == 0 {
				issues = append(issues, Issue{
					Resource: name,
					Path:     "Certificates",
					Severity: SeverityError,
					Message:  protocol + " listener has no certificate",
				})
			}
		case "HTTP":
			actions, _ := props["DefaultActions"].([]any)
			for i, a := range actions {
				action, _ := a.(map[string]any)
				if action["Type"] == "forward" {
					issues = append(issues, Issue{
						Resource: name,
						Path:     fmt.Sprintf("DefaultActions[%d]", i),
						Severity: SeverityWarning,
						Message:  "HTTP listener forwards traffic without TLS",
					})
				}
			}
		}
	}
	return issues
}

// MissingTags detects VPCs and subnets declared without tags.
type MissingTags struct{}

func (r MissingTags) ID() string { return "PON006" }
func (r MissingTags) Description() string {
	return "Network resource without tags"
}

func (r MissingTags) Check(tmpl *pontus.Template) []Issue {
	var issues []Issue
	for _, name := range resourcesOfType(tmpl, "AWS::EC2::VPC", "AWS::EC2::Subnet") {
		if tags, _ := tmpl.Resources[name].Properties["Tags"].([]any); len(tags) == 0 {
			issues = append(issues, Issue{
				Resource: name,
				Path:     "Tags",
				Severity: SeverityInfo,
				Message:  tmpl.Resources[name].Type + " has no tags",
			})
		}
	}
	return issues
}

func resourcesOfType(tmpl *pontus.Template, types ...string) []string {
	var names []string
	for name, res := range tmpl.Resources {
		for _, t := range types {
			if res.Type == t {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return names
}

// toInt accepts the number types of built (int64) and parsed (float64) templates.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, elem := range val {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
