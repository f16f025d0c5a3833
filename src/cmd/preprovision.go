// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/defenseunicorns/pkg/helpers/v2"
	"github.com/spf13/cobra"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/config/lang"
	"github.com/azd-bigbang/service-hooks/src/pkg/azd"
	"github.com/azd-bigbang/service-hooks/src/pkg/cluster"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/interactive"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

type preprovisionOptions struct {
	root *rootOptions
}

func newPreprovisionCommand(root *rootOptions) *cobra.Command {
	o := &preprovisionOptions{root: root}

	cmd := &cobra.Command{
		Use:   "preprovision",
		Short: lang.CmdPreprovisionShort,
		Args:  cobra.NoArgs,
		RunE:  o.run,
	}

	return cmd
}

func (o *preprovisionOptions) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := requireAzureDir(o.root.projectDir); err != nil {
		return err
	}
	store := azd.NewStore(o.root.projectDir)
	if err := store.Load(ctx); err != nil {
		return err
	}
	directory, err := cluster.NewDefaultAzure()
	if err != nil {
		return err
	}
	return preprovision(ctx, store, directory, interactive.PromptSelect)
}

func requireAzureDir(projectDir string) error {
	if helpers.IsDir(filepath.Join(projectDir, config.AzureDir)) {
		return nil
	}
	return herrors.NewWithContext(herrors.ErrCodeConfiguration,
		fmt.Sprintf(lang.CmdPreprovisionErrAzureDir, projectDir),
		map[string]any{"path": projectDir})
}

// preprovision selects the target cluster and persists its settings to the azd environment.
func preprovision(ctx context.Context, store *azd.Store, directory cluster.Directory, prompt cluster.Prompter) error {
	l := logger.From(ctx)

	subscriptionID, err := directory.ActiveSubscriptionID(ctx)
	if err != nil {
		return err
	}
	clusters, err := directory.ListClusters(ctx, subscriptionID)
	if err != nil {
		return err
	}
	l.Debug("found clusters", "subscription", subscriptionID, "count", len(clusters))

	selected, err := cluster.Select(clusters, store.Environment().Get(config.EnvAKSClusterName), prompt)
	if err != nil {
		return err
	}
	environmentName := selected.EnvironmentName()
	l.Info("selected cluster", "cluster", selected.Name, "environment", environmentName, "resourceGroup", selected.ResourceGroup)

	secrets, err := directory.GetSecretStore(ctx, environmentName, subscriptionID, selected.ResourceGroup)
	if err != nil {
		return err
	}
	registry, err := directory.GetContainerRegistry(ctx, subscriptionID, selected.ResourceGroup)
	if err != nil {
		return err
	}

	values := []struct {
		name  string
		value string
	}{
		{config.EnvAKSClusterName, selected.Name},
		{config.EnvKeyVaultEndpoint, secrets.URI},
		{config.EnvKeyVaultName, secrets.Name},
		{config.EnvKeyVaultProviderClientID, selected.KeyVaultIdentityClientID},
		{config.EnvResourceGroup, selected.ResourceGroup},
		{config.EnvAKSEnvironmentName, environmentName},
		{config.EnvTenantID, secrets.TenantID},
		{config.EnvContainerRegistry, registry.LoginServer},
		{config.EnvGitOpsReleaseBranch, selected.Tags[config.GitOpsReleaseBranchTag]},
		{config.EnvGitOpsRepo, selected.Tags[config.GitOpsRepoTag]},
	}
	for _, kv := range values {
		if err := store.Set(ctx, kv.name, kv.value, true); err != nil {
			return err
		}
	}
	return nil
}
