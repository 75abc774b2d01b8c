package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"
)

// SecretPutter is the Secrets Manager API used to store the payload.
type SecretPutter interface {
	PutSecretValue(ctx context.Context, params *secretsmanager.PutSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.PutSecretValueOutput, error)
}

// ServiceUpdater is the ECS API used to roll out tasks that read the new secret.
type ServiceUpdater interface {
	UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
}

var (
	_ StackDescriber = (*cloudformation.Client)(nil)
	_ SecretPutter   = (*secretsmanager.Client)(nil)
	_ ServiceUpdater = (*ecs.Client)(nil)
)

// LoadAWSConfig loads the default credential chain for region.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(loadCtx, awsconfig.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Writer stores payloads in Secrets Manager.
type Writer struct {
	client SecretPutter
	log    *zap.SugaredLogger
}

// NewWriter returns a Writer. A nil logger discards diagnostics.
func NewWriter(client SecretPutter, log *zap.SugaredLogger) *Writer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Writer{client: client, log: log}
}

// Put writes payload as a new version of secretID and returns the version ID.
func (w *Writer) Put(ctx context.Context, secretID string, payload Payload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	out, err := w.client.PutSecretValue(ctx, &secretsmanager.PutSecretValueInput{
		SecretId:     aws.String(secretID),
		SecretString: aws.String(string(data)),
	})
	if err != nil {
		return "", fmt.Errorf("writing secret %s: %w", secretID, err)
	}

	version := aws.ToString(out.VersionId)
	w.log.Infow("secret updated", "secret", secretID, "version", version)
	return version, nil
}

// Redeployer forces ECS services to start fresh tasks.
type Redeployer struct {
	client ServiceUpdater
	log    *zap.SugaredLogger
}

// NewRedeployer returns a Redeployer. A nil logger discards diagnostics.
func NewRedeployer(client ServiceUpdater, log *zap.SugaredLogger) *Redeployer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Redeployer{client: client, log: log}
}

// Redeploy starts a new deployment of service in cluster.
func (r *Redeployer) Redeploy(ctx context.Context, cluster, service string) error {
	_, err := r.client.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:            aws.String(cluster),
		Service:            aws.String(service),
		ForceNewDeployment: true,
	})
	if err != nil {
		return fmt.Errorf("redeploying %s/%s: %w", cluster, service, err)
	}
	r.log.Infow("deployment started", "cluster", cluster, "service", service)
	return nil
}
