package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// ErrMissingOutput is returned when a stack output the payload needs is absent or empty.
var ErrMissingOutput = errors.New("missing stack output")

// Outputs maps stack output keys to their values.
type Outputs map[string]string

// Get returns the value of key or ErrMissingOutput.
func (o Outputs) Get(key string) (string, error) {
	v, ok := o[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingOutput, key)
	}
	return v, nil
}

// LoadOutputsFile reads outputs from a JSON file.
func LoadOutputsFile(path string) (Outputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := ParseOutputs(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return out, nil
}

type describeStacksFile struct {
	Stacks []struct {
		Outputs []struct {
			OutputKey   string `json:"OutputKey"`
			OutputValue string `json:"OutputValue"`
		} `json:"Outputs"`
	} `json:"Stacks"`
}

// ParseOutputs accepts a flat {"Key": "value"} object or the JSON printed by
// `aws cloudformation describe-stacks`. Only the first stack of the latter is read.
func ParseOutputs(data []byte) (Outputs, error) {
	var described describeStacksFile
	if err := json.Unmarshal(data, &described); err == nil && len(described.Stacks) > 0 {
		out := make(Outputs)
		for _, o := range described.Stacks[0].Outputs {
			out[o.OutputKey] = o.OutputValue
		}
		return out, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(Outputs, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64, bool:
			out[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("output %s: unsupported value %v", k, v)
		}
	}
	return out, nil
}

// StackDescriber is the CloudFormation API used to read stack outputs.
type StackDescriber interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// FetchOutputs reads the outputs of the deployed stack.
func FetchOutputs(ctx context.Context, client StackDescriber, stackName string) (Outputs, error) {
	resp, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("describing stack %s: %w", stackName, err)
	}
	if len(resp.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s not found", stackName)
	}

	out := make(Outputs)
	for _, o := range resp.Stacks[0].Outputs {
		out[aws.ToString(o.OutputKey)] = aws.ToString(o.OutputValue)
	}
	return out, nil
}
