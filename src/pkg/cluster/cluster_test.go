// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cluster

import (
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/stretchr/testify/require"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

const clusterID = "/subscriptions/0000/resourceGroups/rg-dev/providers/Microsoft.ContainerService/managedClusters/aks-dev"

func TestResourceGroupFromID(t *testing.T) {
	t.Parallel()

	rg, err := ResourceGroupFromID(clusterID)
	require.NoError(t, err)
	require.Equal(t, "rg-dev", rg)

	for _, id := range []string{"", "/subscriptions/0000", "/subscriptions/0000/providers/x/y"} {
		_, err := ResourceGroupFromID(id)
		require.Error(t, err, id)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	clusters := []Cluster{
		{Name: "aks-dev", Tags: map[string]string{"azd-env-name": "dev"}},
		{Name: "aks-prod", Tags: map[string]string{"azd-env-name": "prod"}},
	}
	noPrompt := func(string, []string) (int, error) {
		t.Fatal("prompt must not be called")
		return 0, nil
	}

	c, err := Select(clusters, "aks-prod", noPrompt)
	require.NoError(t, err)
	require.Equal(t, "prod", c.EnvironmentName())

	_, err = Select(clusters, "aks-missing", noPrompt)
	require.ErrorIs(t, err, herrors.ErrNotFound)

	_, err = Select(nil, "", noPrompt)
	require.ErrorIs(t, err, herrors.ErrNotFound)

	var offered []string
	c, err = Select(clusters, "", func(_ string, options []string) (int, error) {
		offered = options
		return 1, nil
	})
	require.NoError(t, err)
	require.Equal(t, "aks-prod", c.Name)
	require.Equal(t, []string{
		"Environment: dev Cluster: aks-dev",
		"Environment: prod Cluster: aks-prod",
	}, offered)

	_, err = Select(clusters, "", func(string, []string) (int, error) {
		return 0, errors.New("interrupt")
	})
	require.ErrorContains(t, err, "interrupt")

	_, err = Select(clusters, "", func(string, []string) (int, error) {
		return 2, nil
	})
	require.Error(t, err)
}

func TestFilterByTag(t *testing.T) {
	t.Parallel()

	clusters := []Cluster{
		{Name: "a", Tags: map[string]string{"azd-env-name": "dev"}},
		{Name: "b", Tags: map[string]string{}},
		{Name: "c", Tags: map[string]string{"azd-env-name": ""}},
		{Name: "d", Tags: map[string]string{"azd-env-name": "test"}},
	}
	got := FilterByTag(clusters, "azd-env-name")
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].Name)
	require.Equal(t, "d", got[1].Name)
}

func TestFromARM(t *testing.T) {
	t.Parallel()

	mc := &armcontainerservice.ManagedCluster{
		ID:   to.Ptr(clusterID),
		Name: to.Ptr("aks-dev"),
		Tags: map[string]*string{
			"azd-env-name":          to.Ptr("dev"),
			"gitops-repo":           to.Ptr("contoso/gitops"),
			"gitops-release-branch": to.Ptr("release"),
		},
		Properties: &armcontainerservice.ManagedClusterProperties{
			AddonProfiles: map[string]*armcontainerservice.ManagedClusterAddonProfile{
				"azureKeyvaultSecretsProvider": {
					Enabled: to.Ptr(true),
					Identity: &armcontainerservice.ManagedClusterAddonProfileIdentity{
						ClientID: to.Ptr("client-id"),
					},
				},
			},
		},
	}
	c, err := clusterFromARM(mc)
	require.NoError(t, err)
	require.Equal(t, Cluster{
		Name:          "aks-dev",
		ID:            clusterID,
		ResourceGroup: "rg-dev",
		Tags: map[string]string{
			"azd-env-name":          "dev",
			"gitops-repo":           "contoso/gitops",
			"gitops-release-branch": "release",
		},
		KeyVaultIdentityClientID: "client-id",
	}, c)

	_, err = clusterFromARM(&armcontainerservice.ManagedCluster{Name: to.Ptr("x")})
	require.Error(t, err)

	store := storeFromARM(&armkeyvault.Vault{
		Name: to.Ptr("kv-dev"),
		Properties: &armkeyvault.VaultProperties{
			VaultURI: to.Ptr("https://kv-dev.vault.azure.net/"),
			TenantID: to.Ptr("tenant"),
		},
	})
	require.Equal(t, SecretStore{Name: "kv-dev", URI: "https://kv-dev.vault.azure.net/", TenantID: "tenant"}, store)

	reg := registryFromARM(&armcontainerregistry.Registry{
		Name: to.Ptr("acrdev"),
		Properties: &armcontainerregistry.RegistryProperties{
			LoginServer: to.Ptr("acrdev.azurecr.io"),
		},
	})
	require.Equal(t, Registry{Name: "acrdev", LoginServer: "acrdev.azurecr.io"}, reg)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "forbidden", err: &azcore.ResponseError{StatusCode: http.StatusForbidden}, want: herrors.ErrUnauthorized},
		{name: "unauthorized", err: &azcore.ResponseError{StatusCode: http.StatusUnauthorized}, want: herrors.ErrUnauthorized},
		{name: "not found", err: &azcore.ResponseError{StatusCode: http.StatusNotFound}, want: herrors.ErrNotFound},
		{name: "server error", err: &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}, want: herrors.ErrTransient},
		{name: "network", err: errors.New("dial tcp: i/o timeout"), want: herrors.ErrTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, classify(tt.err, "lookup"), tt.want)
		})
	}
}
