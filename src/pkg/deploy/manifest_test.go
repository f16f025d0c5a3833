// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package deploy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

func TestParseManifest(t *testing.T) {
	t.Parallel()

	doc := `name: todo
metadata:
  template: todo-bigbang
services:
  web:
    project: ./src/web
    language: js
    host: aks
  api:
    project: ./src/api
    k8s:
      deploymentPath: deploy/k8s
`
	services, err := ParseManifest([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, []Service{
		{Name: "web", Project: "./src/web", ManifestSubdir: "manifests"},
		{Name: "api", Project: "./src/api", ManifestSubdir: "deploy/k8s"},
	}, services)
	require.Equal(t, filepath.Join("proj", "src", "api", "deploy", "k8s"), services[1].ManifestPath("proj"))
}

func TestParseManifestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "no services", doc: "name: todo\n"},
		{name: "empty services", doc: "services: {}\n"},
		{name: "missing project", doc: "services:\n  api:\n    host: aks\n"},
		{name: "invalid yaml", doc: "services: [\n"},
		{name: "parent directory name", doc: "services:\n  ../x:\n    project: svc\n"},
		{name: "nested name", doc: "services:\n  a/b:\n    project: svc\n"},
		{name: "backslash name", doc: "services:\n  a\\b:\n    project: svc\n"},
		{name: "dot name", doc: "services:\n  .:\n    project: svc\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest([]byte(tt.doc))
			require.ErrorIs(t, err, herrors.ErrConfiguration)
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadManifest(filepath.Join(t.TempDir(), "azure.yaml"))
	require.ErrorIs(t, err, herrors.ErrConfiguration)
	require.ErrorContains(t, err, "azd init")
}
