package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/spf13/cobra"

	"github.com/pontuslabs/pontus-infra/endpoint"
	"github.com/pontuslabs/pontus-infra/infra"
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/secrets"
)

func newSecretsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Build and store the application secret",
		Long: `The application secret combines the data service endpoints of the deployed
app stack with the credentials from the config file.

Stack outputs are read from CloudFormation, or from --outputs: either the JSON of
'aws cloudformation describe-stacks' or a flat {"Key": "value"} object.

Examples:
    pontus-infra secrets render --outputs outputs.json
    pontus-infra secrets sync --restart`,
	}

	cmd.AddCommand(newSecretsRenderCmd(opts), newSecretsSyncCmd(opts))

	return cmd
}

func newSecretsRenderCmd(opts *globalOptions) *cobra.Command {
	var outputsFile string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the application secret as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsRender(cmd.Context(), cmd.OutOrStdout(), opts, outputsFile)
		},
	}

	cmd.Flags().StringVar(&outputsFile, "outputs", "", "Stack outputs file (default: read from CloudFormation)")

	return cmd
}

func newSecretsSyncCmd(opts *globalOptions) *cobra.Command {
	var (
		outputsFile string
		restart     bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Write the application secret to Secrets Manager",
		Long: `Sync writes the application secret as a new secret version. With --restart the
ECS service is redeployed so running tasks pick up the new values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretsSync(cmd.Context(), cmd.OutOrStdout(), opts, outputsFile, restart)
		},
	}

	cmd.Flags().StringVar(&outputsFile, "outputs", "", "Stack outputs file (default: read from CloudFormation)")
	cmd.Flags().BoolVar(&restart, "restart", false, "Force a new deployment of the ECS service")

	return cmd
}

func runSecretsRender(ctx context.Context, w io.Writer, opts *globalOptions, outputsFile string) error {
	cfg, err := loadSecretsConfig(opts)
	if err != nil {
		return err
	}

	var awsCfg *aws.Config
	if outputsFile == "" {
		c, err := secrets.LoadAWSConfig(ctx, cfg.Region)
		if err != nil {
			return err
		}
		awsCfg = &c
	}

	outputs, err := loadOutputs(ctx, cfg, awsCfg, outputsFile)
	if err != nil {
		return err
	}

	payload, err := secrets.Build(cfg, outputs, endpoint.NewResolver(opts.logger()))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func runSecretsSync(ctx context.Context, w io.Writer, opts *globalOptions, outputsFile string, restart bool) error {
	cfg, err := loadSecretsConfig(opts)
	if err != nil {
		return err
	}

	awsCfg, err := secrets.LoadAWSConfig(ctx, cfg.Region)
	if err != nil {
		return err
	}

	outputs, err := loadOutputs(ctx, cfg, &awsCfg, outputsFile)
	if err != nil {
		return err
	}

	log := opts.logger()
	payload, err := secrets.Build(cfg, outputs, endpoint.NewResolver(log))
	if err != nil {
		return err
	}

	secretID := cfg.SecretName()
	if arn, ok := outputs[infra.OutputSecretArn]; ok && arn != "" {
		secretID = arn
	}

	version, err := secrets.NewWriter(secretsmanager.NewFromConfig(awsCfg), log).Put(ctx, secretID, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Secret %s updated (version %s)\n", secretID, version)

	if !restart {
		return nil
	}

	cluster, err := outputs.Get(infra.OutputClusterName)
	if err != nil {
		return err
	}
	service, err := outputs.Get(infra.OutputServiceName)
	if err != nil {
		return err
	}
	if err := secrets.NewRedeployer(ecs.NewFromConfig(awsCfg), log).Redeploy(ctx, cluster, service); err != nil {
		return err
	}
	fmt.Fprintf(w, "Redeploying %s/%s\n", cluster, service)
	return nil
}

// loadSecretsConfig loads the config with every env: reference required to be set.
func loadSecretsConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := opts.loadConfig(true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateSecrets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadOutputs reads the app stack outputs from file, or from CloudFormation when file is empty.
func loadOutputs(ctx context.Context, cfg *config.Config, awsCfg *aws.Config, file string) (secrets.Outputs, error) {
	if file != "" {
		return secrets.LoadOutputsFile(file)
	}
	return secrets.FetchOutputs(ctx, cloudformation.NewFromConfig(*awsCfg), cfg.StackName())
}
