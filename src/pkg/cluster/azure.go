// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package cluster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice/v4"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"

	"github.com/azd-bigbang/service-hooks/src/config"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

// Azure is the Directory backed by Azure Resource Manager and Key Vault.
type Azure struct {
	cred azcore.TokenCredential
}

// NewAzure returns an Azure directory authenticating with cred.
func NewAzure(cred azcore.TokenCredential) *Azure {
	return &Azure{cred: cred}
}

// NewDefaultAzure returns an Azure directory using the default credential chain (environment, workload identity,
// managed identity, az and azd CLI logins).
func NewDefaultAzure() (*Azure, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeUnauthorized, "unable to create azure credential, run 'az login'", err)
	}
	return NewAzure(cred), nil
}

// ActiveSubscriptionID returns the first subscription visible to the credential.
func (a *Azure) ActiveSubscriptionID(ctx context.Context) (string, error) {
	client, err := armsubscriptions.NewClient(a.cred, nil)
	if err != nil {
		return "", herrors.Wrap(herrors.ErrCodeInternal, "unable to create subscriptions client", err)
	}
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", classify(err, "unable to list subscriptions")
		}
		for _, s := range page.Value {
			if s != nil && s.SubscriptionID != nil && *s.SubscriptionID != "" {
				return *s.SubscriptionID, nil
			}
		}
	}
	return "", herrors.New(herrors.ErrCodeNotFound, "no active subscription found, run 'az login' to log in to Azure")
}

// ListClusters returns the managed clusters of the subscription carrying an azd environment tag.
func (a *Azure) ListClusters(ctx context.Context, subscriptionID string) ([]Cluster, error) {
	l := logger.From(ctx)
	client, err := armcontainerservice.NewManagedClustersClient(subscriptionID, a.cred, nil)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeInternal, "unable to create managed clusters client", err)
	}
	var clusters []Cluster
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err, "unable to list managed clusters")
		}
		for _, mc := range page.Value {
			c, err := clusterFromARM(mc)
			if err != nil {
				l.Warn("skipping managed cluster", "error", err)
				continue
			}
			clusters = append(clusters, c)
		}
	}
	return FilterByTag(clusters, config.EnvironmentNameTag), nil
}

// GetSecretStore returns the Key Vault in resourceGroup tagged with environmentName.
func (a *Azure) GetSecretStore(ctx context.Context, environmentName, subscriptionID, resourceGroup string) (SecretStore, error) {
	client, err := armkeyvault.NewVaultsClient(subscriptionID, a.cred, nil)
	if err != nil {
		return SecretStore{}, herrors.Wrap(herrors.ErrCodeInternal, "unable to create key vault client", err)
	}
	pager := client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return SecretStore{}, classify(err, "unable to list key vaults")
		}
		for _, v := range page.Value {
			if v == nil || tags(v.Tags)[config.EnvironmentNameTag] != environmentName {
				continue
			}
			return storeFromARM(v), nil
		}
	}
	return SecretStore{}, herrors.NewWithContext(herrors.ErrCodeNotFound,
		fmt.Sprintf("no key vault in %s carries %s=%s", resourceGroup, config.EnvironmentNameTag, environmentName),
		map[string]any{"resourceGroup": resourceGroup, "tag": config.EnvironmentNameTag, "environment": environmentName})
}

// GetSecret returns the current value of the named secret.
func (a *Azure) GetSecret(ctx context.Context, store SecretStore, name string) (string, error) {
	client, err := azsecrets.NewClient(store.URI, a.cred, nil)
	if err != nil {
		return "", herrors.Wrap(herrors.ErrCodeInternal, "unable to create secrets client", err)
	}
	resp, err := client.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", classify(err, fmt.Sprintf("unable to read secret %s from %s", name, store.Name))
	}
	if resp.Value == nil {
		return "", herrors.Newf(herrors.ErrCodeNotFound, "secret %s in %s has no value", name, store.Name)
	}
	return *resp.Value, nil
}

// GetContainerRegistry returns the first registry in resourceGroup carrying an azd environment tag.
func (a *Azure) GetContainerRegistry(ctx context.Context, subscriptionID, resourceGroup string) (Registry, error) {
	client, err := armcontainerregistry.NewRegistriesClient(subscriptionID, a.cred, nil)
	if err != nil {
		return Registry{}, herrors.Wrap(herrors.ErrCodeInternal, "unable to create container registry client", err)
	}
	pager := client.NewListByResourceGroupPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return Registry{}, classify(err, "unable to list container registries")
		}
		for _, r := range page.Value {
			if r == nil || !HasTag(tags(r.Tags), config.EnvironmentNameTag) {
				continue
			}
			return registryFromARM(r), nil
		}
	}
	return Registry{}, herrors.NewWithContext(herrors.ErrCodeNotFound,
		fmt.Sprintf("no container registry found, create one and set the %s tag", config.ContainerRegistryTag),
		map[string]any{"resourceGroup": resourceGroup, "tag": config.ContainerRegistryTag})
}

func clusterFromARM(mc *armcontainerservice.ManagedCluster) (Cluster, error) {
	if mc == nil || mc.ID == nil || mc.Name == nil {
		return Cluster{}, errors.New("managed cluster without id or name")
	}
	rg, err := ResourceGroupFromID(*mc.ID)
	if err != nil {
		return Cluster{}, err
	}
	c := Cluster{
		Name:          *mc.Name,
		ID:            *mc.ID,
		ResourceGroup: rg,
		Tags:          tags(mc.Tags),
	}
	if mc.Properties != nil {
		if p, ok := mc.Properties.AddonProfiles[config.KeyVaultAddonProfile]; ok && p != nil && p.Identity != nil {
			c.KeyVaultIdentityClientID = deref(p.Identity.ClientID)
		}
	}
	return c, nil
}

func storeFromARM(v *armkeyvault.Vault) SecretStore {
	s := SecretStore{Name: deref(v.Name)}
	if v.Properties != nil {
		s.URI = deref(v.Properties.VaultURI)
		s.TenantID = deref(v.Properties.TenantID)
	}
	return s
}

func registryFromARM(r *armcontainerregistry.Registry) Registry {
	reg := Registry{Name: deref(r.Name)}
	if r.Properties != nil {
		reg.LoginServer = deref(r.Properties.LoginServer)
	}
	return reg
}

func tags(in map[string]*string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = deref(v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// classify maps Azure SDK failures onto the hook error codes.
func classify(err error, msg string) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return herrors.Wrap(herrors.ErrCodeUnauthorized, msg+", check your azure role assignments", err)
		case http.StatusNotFound:
			return herrors.Wrap(herrors.ErrCodeNotFound, msg, err)
		}
		return herrors.Wrap(herrors.ErrCodeTransient, msg, err)
	}
	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) || strings.Contains(err.Error(), "DefaultAzureCredential") {
		return herrors.Wrap(herrors.ErrCodeUnauthorized, msg+", run 'az login' to log in to Azure", err)
	}
	return herrors.Wrap(herrors.ErrCodeTransient, msg, err)
}
