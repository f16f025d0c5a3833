// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package kustomize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	kyaml "sigs.k8s.io/kustomize/kyaml/yaml"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/test/testutil"
)

func writeKustomization(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "kustomization.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestEnsureResourceIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	p := writeKustomization(t, "apiVersion: kustomize.config.k8s.io/v1beta1\nkind: Kustomization\nresources:\n- ./base\n")
	idx := NewIndex(p)

	added, err := idx.EnsureResource(ctx, "./services/api")
	require.NoError(t, err)
	require.True(t, added)

	added, err = idx.EnsureResource(ctx, "./services/api")
	require.NoError(t, err)
	require.False(t, added)

	got, err := idx.Resources()
	require.NoError(t, err)
	require.Equal(t, []string{"./base", "./services/api"}, got)
}

func TestEnsureResourcePreservesOtherKeys(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	p := writeKustomization(t, `apiVersion: kustomize.config.k8s.io/v1beta1
kind: Kustomization
namespace: workloads
resources:
- ./base
commonLabels:
  team: platform
  tier: backend
`)
	_, err := NewIndex(p).EnsureResource(ctx, "./services/api")
	require.NoError(t, err)

	node, err := kyaml.ReadFile(p)
	require.NoError(t, err)
	fields, err := node.Fields()
	require.NoError(t, err)
	require.Equal(t, []string{"apiVersion", "kind", "namespace", "resources", "commonLabels"}, fields)

	ns, err := node.Pipe(kyaml.Lookup("namespace"))
	require.NoError(t, err)
	require.Equal(t, "workloads", kyaml.GetValue(ns))

	tier, err := node.Pipe(kyaml.Lookup("commonLabels", "tier"))
	require.NoError(t, err)
	require.Equal(t, "backend", kyaml.GetValue(tier))
}

func TestEnsureResourceWithoutResourcesKey(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	body := "apiVersion: kustomize.config.k8s.io/v1beta1\nkind: Kustomization\n"
	p := writeKustomization(t, body)

	added, err := NewIndex(p).EnsureResource(ctx, "./services/api")
	require.ErrorIs(t, err, herrors.ErrConfiguration)
	require.False(t, added)

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, body, string(b))
}

func TestEnsureResourceFlowAndNull(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "flow list",
			body: "kind: Kustomization\nresources: [./base, ./infra]\n",
			want: []string{"./base", "./infra", "./services/api"},
		},
		{
			name: "null list",
			body: "kind: Kustomization\nresources:\n",
			want: []string{"./services/api"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := writeKustomization(t, tt.body)
			idx := NewIndex(p)

			_, err := idx.EnsureResource(ctx, "./services/api")
			require.NoError(t, err)

			got, err := idx.Resources()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			b, err := os.ReadFile(p)
			require.NoError(t, err)
			require.NotContains(t, string(b), "[")
			require.Contains(t, string(b), "- ./services/api")
		})
	}
}

func TestEnsureResourceNotAList(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	p := writeKustomization(t, "resources: ./base\n")
	_, err := NewIndex(p).EnsureResource(ctx, "./services/api")
	require.ErrorIs(t, err, herrors.ErrConfiguration)
}

func TestEnsureResourceMissingFile(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	_, err := NewIndex(filepath.Join(t.TempDir(), "kustomization.yaml")).EnsureResource(ctx, "./services/api")
	require.ErrorIs(t, err, herrors.ErrConfiguration)
}
