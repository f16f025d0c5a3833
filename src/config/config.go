// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package config stores the global configuration and constants for the azd hooks.
package config

import (
	"fmt"
)

// Resource tags read from the Azure resources provisioned for an environment.
const (
	EnvironmentNameTag     = "azd-env-name"
	GitOpsRepoTag          = "gitops-repo"
	GitOpsReleaseBranchTag = "gitops-release-branch"
	KeyVaultAddonProfile   = "azureKeyvaultSecretsProvider"
	ContainerRegistryTag   = "azd-container-registry-name"
	GitOpsTokenSecretName  = "githubToken"
)

// Environment variable names read from and written to the azd environment.
const (
	EnvAKSClusterName           = "AZURE_AKS_CLUSTER_NAME"
	EnvKeyVaultEndpoint         = "AZURE_KEY_VAULT_ENDPOINT"
	EnvKeyVaultName             = "AZURE_KEY_VAULT_NAME"
	EnvKeyVaultProviderClientID = "AZURE_AKS_KV_PROVIDER_CLIENT_ID"
	EnvResourceGroup            = "AZURE_RESOURCE_GROUP"
	EnvSubscriptionID           = "AZURE_SUBSCRIPTION_ID"
	EnvAKSEnvironmentName       = "AZURE_AKS_ENVIRONMENT_NAME"
	EnvTenantID                 = "AZURE_TENANT_ID"
	EnvContainerRegistry        = "AZURE_CONTAINER_REGISTRY_ENDPOINT"
	EnvGitOpsRepo               = "GITOPS_REPO"
	EnvGitOpsReleaseBranch      = "GITOPS_REPO_RELEASE_BRANCH"
	EnvGitHubToken              = "GITHUB_TOKEN"
	EnvServiceName              = "SERVICE_NAME"
	EnvServiceImageName         = "SERVICE_API_IMAGE_NAME"
	EnvServiceImageRepo         = "SERVICE_API_IMAGE_REPO"
	EnvServiceImageTag          = "SERVICE_API_IMAGE_TAG"
)

// Layout of the project and of the GitOps repository.
const (
	AzureDir              = ".azure"
	DeploymentManifest    = "azure.yaml"
	DefaultManifestSubdir = "manifests"
	TemplateSuffix        = ".tmpl"
	KustomizationFile     = "kustomization.yaml"
	ServicesDir           = "services"
	DefaultGitOpsHost     = "github.com"
	DefaultAuthorName     = "azd-hooks"
	DefaultAuthorEmail    = "azd-hooks@users.noreply.github.com"
)

var (
	// CLIVersion tracks the version of the CLI, set with ldflags.
	CLIVersion = "unset"

	// NoColor is a boolean to disable colors in the console output.
	NoColor = false
)

// GitOpsEnvironmentPath returns the directory inside a GitOps clone holding an environment's kustomization.
func GitOpsEnvironmentPath(environmentName string) []string {
	return []string{"environments", environmentName, "src", "manifests"}
}

// ServiceResourcePath returns the kustomization resource entry registered for a service.
func ServiceResourcePath(serviceName string) string {
	return fmt.Sprintf("./%s/%s", ServicesDir, serviceName)
}

// CommitMessage returns the commit message used when publishing a service.
func CommitMessage(serviceName string) string {
	return fmt.Sprintf("Deployed service: %s", serviceName)
}
