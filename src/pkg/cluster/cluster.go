// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package cluster looks up the clusters, secret stores and registries provisioned for azd environments.
package cluster

import (
	"context"
	"fmt"
	"strings"

	"github.com/azd-bigbang/service-hooks/src/config"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// Cluster is a managed cluster tagged with an azd environment.
type Cluster struct {
	Name          string
	ID            string
	ResourceGroup string
	Tags          map[string]string
	// KeyVaultIdentityClientID is the client ID of the Key Vault secrets provider addon identity.
	KeyVaultIdentityClientID string
}

// EnvironmentName returns the azd environment the cluster belongs to.
func (c Cluster) EnvironmentName() string {
	return c.Tags[config.EnvironmentNameTag]
}

// SecretStore is a Key Vault holding an environment's deployment secrets.
type SecretStore struct {
	Name     string
	URI      string
	TenantID string
}

// Registry is a container registry.
type Registry struct {
	Name        string
	LoginServer string
}

// Directory resolves the cloud resources of an environment.
// Lookups that succeed without a match return a not found error, failed calls return a transient
// or unauthorized error.
type Directory interface {
	ActiveSubscriptionID(ctx context.Context) (string, error)
	ListClusters(ctx context.Context, subscriptionID string) ([]Cluster, error)
	GetSecretStore(ctx context.Context, environmentName, subscriptionID, resourceGroup string) (SecretStore, error)
	GetSecret(ctx context.Context, store SecretStore, name string) (string, error)
	GetContainerRegistry(ctx context.Context, subscriptionID, resourceGroup string) (Registry, error)
}

// ResourceGroupFromID returns the resource group segment of an ARM resource ID,
// /subscriptions/<sub>/resourceGroups/<rg>/providers/...
func ResourceGroupFromID(id string) (string, error) {
	parts := strings.Split(id, "/")
	if len(parts) < 5 || !strings.EqualFold(parts[3], "resourceGroups") || parts[4] == "" {
		return "", herrors.Newf(herrors.ErrCodeInternal, "resource id %q has no resource group", id)
	}
	return parts[4], nil
}

// HasTag reports whether tags carries a non-empty value for key.
func HasTag(tags map[string]string, key string) bool {
	return tags[key] != ""
}

// FilterByTag returns the clusters carrying a non-empty key tag.
func FilterByTag(clusters []Cluster, key string) []Cluster {
	var out []Cluster
	for _, c := range clusters {
		if HasTag(c.Tags, key) {
			out = append(out, c)
		}
	}
	return out
}

// Prompter asks the user to pick one of options and returns its index.
type Prompter func(title string, options []string) (int, error)

// Select picks the target cluster. A non-empty name selects the cluster with that name,
// otherwise prompt chooses among all clusters.
func Select(clusters []Cluster, name string, prompt Prompter) (Cluster, error) {
	if len(clusters) == 0 {
		return Cluster{}, herrors.NewWithContext(herrors.ErrCodeNotFound,
			fmt.Sprintf("no clusters found, create a cluster and set the %s tag", config.EnvironmentNameTag),
			map[string]any{"tag": config.EnvironmentNameTag})
	}
	if name != "" {
		for _, c := range clusters {
			if c.Name == name {
				return c, nil
			}
		}
		return Cluster{}, herrors.NewWithContext(herrors.ErrCodeNotFound,
			fmt.Sprintf("no cluster named %s carries the %s tag", name, config.EnvironmentNameTag),
			map[string]any{"name": name, "tag": config.EnvironmentNameTag})
	}

	options := make([]string, len(clusters))
	for i, c := range clusters {
		options[i] = fmt.Sprintf("Environment: %s Cluster: %s", c.EnvironmentName(), c.Name)
	}
	idx, err := prompt("Select a cluster for your deployment environment", options)
	if err != nil {
		return Cluster{}, fmt.Errorf("unable to select a cluster: %w", err)
	}
	if idx < 0 || idx >= len(clusters) {
		return Cluster{}, herrors.Newf(herrors.ErrCodeInternal, "selected cluster index %d is out of range", idx)
	}
	return clusters[idx], nil
}
