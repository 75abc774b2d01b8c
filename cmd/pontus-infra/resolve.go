package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pontuslabs/pontus-infra/endpoint"
)

// passwordMask replaces endpoint passwords in every output format.
const passwordMask = "********"

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var (
		kind         string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "resolve ENDPOINT",
		Short: "Resolve a service endpoint to host and port",
		Long: `Resolve parses an endpoint as published by a managed service and prints the
connection descriptor. A missing port is filled from the kind's default:

    cache                  6379
    relational-database    5432
    message-broker         5671

Engine names are accepted as kinds: redis, postgres, rabbitmq.

Examples:
    pontus-infra resolve --kind broker amqps://b-1234.mq.us-east-1.amazonaws.com:5671
    pontus-infra resolve --kind postgres mydb.abc123.rds.amazonaws.com -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd.OutOrStdout(), opts, args[0], kind, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Service kind: cache, relational-database or message-broker")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

func runResolve(w io.Writer, opts *globalOptions, raw, kindName, format string) error {
	kind, err := endpoint.ParseKind(kindName)
	if err != nil {
		return err
	}

	d, err := endpoint.NewResolver(opts.logger()).Resolve(raw, kind)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		if d.Password != "" {
			d.Password = passwordMask
		}
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		fmt.Fprintf(w, "host:     %s\n", d.Host)
		fmt.Fprintf(w, "port:     %d\n", d.Port)
		if d.User != "" {
			fmt.Fprintf(w, "user:     %s\n", d.User)
		}
		if d.Password != "" {
			fmt.Fprintf(w, "password: %s\n", passwordMask)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
