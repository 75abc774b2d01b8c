package infra

import (
	"github.com/pontuslabs/pontus-infra/internal/config"
	"github.com/pontuslabs/pontus-infra/internal/template"
	. "github.com/pontuslabs/pontus-infra/intrinsics"
	"github.com/pontuslabs/pontus-infra/resources/iam"
)

// GitHub Actions OIDC issuer settings.
const (
	GithubOIDCURL        = "https://token.actions.githubusercontent.com"
	GithubOIDCAudience   = "sts.amazonaws.com"
	GithubOIDCThumbprint = "6938fd4d98bab03faadb97b34396831e3780aea1"

	DeployRoleName   = "github-actions-ecs-deploy-role"
	DeployPolicyName = "EcsServiceUpdatePolicy"
)

// Identity holds the handles of the CI deployment identity.
type Identity struct {
	Provider template.Handle
	Role     template.Handle
	Policy   template.Handle
}

// DeclareIdentity declares the GitHub Actions OIDC provider and the role CI assumes to roll
// out new task definitions. Only workflows of cfg.GithubRepo may assume it.
func DeclareIdentity(b *template.Builder, cfg *config.Config) Identity {
	var id Identity

	id.Provider = b.Resource("GithubOidcProvider", iam.OIDCProvider{
		Url:            GithubOIDCURL,
		ClientIdList:   []string{GithubOIDCAudience},
		ThumbprintList: []string{GithubOIDCThumbprint},
	})

	id.Role = b.Resource("GithubActionsRole", iam.Role{
		RoleName:    DeployRoleName,
		Description: "Role for GitHub Actions to update ECS services",
		AssumeRolePolicyDocument: WebIdentityPolicy(
			id.Provider.Ref(),
			"token.actions.githubusercontent.com",
			GithubOIDCAudience,
			"repo:"+cfg.GithubRepo+":*",
		),
	})

	passRole := Allow("*", "iam:PassRole")
	passRole.Condition = Json{
		StringLike: Json{"iam:PassedToService": "ecs-tasks.amazonaws.com"},
	}

	id.Policy = b.Resource("EcsUpdatePolicy", iam.ManagedPolicy{
		ManagedPolicyName: DeployPolicyName,
		Description:       "Allows updating ECS services",
		PolicyDocument: NewPolicyDocument(
			Allow("*",
				"ecs:ListClusters",
				"ecs:ListServices",
				"ecs:UpdateService",
				"ecs:DescribeServices",
				"ecs:DescribeTaskDefinition",
				"ecs:RegisterTaskDefinition",
				"ec2:DescribeRegions",
			),
			passRole,
		),
		Roles: []any{id.Role.Ref()},
	})

	b.Output(OutputOIDCProviderArn, "GitHub Actions OIDC provider", id.Provider.Ref(), exportName(OutputOIDCProviderArn))
	b.Output(OutputDeployRoleArn, "Role assumed by GitHub Actions deployments", id.Role.GetAtt("Arn"), exportName(OutputDeployRoleArn))

	return id
}
