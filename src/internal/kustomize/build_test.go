// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package kustomize

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/test/testutil"
)

func TestBuild(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"kustomization.yaml":              "resources:\n- ./services/api\n",
		"services/api/kustomization.yaml": "resources:\n- namespace.yaml\n",
		"services/api/namespace.yaml":     "apiVersion: v1\nkind: Namespace\nmetadata:\n  name: api\n",
	})

	out, err := Build(root)
	require.NoError(t, err)
	require.Contains(t, string(out), "kind: Namespace")
	require.Contains(t, string(out), "name: api")

	require.NoError(t, Verify(ctx, root))
}

func TestVerifyMissingResource(t *testing.T) {
	t.Parallel()
	ctx := testutil.TestContext(t)

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"kustomization.yaml": "resources:\n- ./services/missing\n",
	})

	err := Verify(ctx, root)
	require.ErrorIs(t, err, herrors.ErrConfiguration)
}

func TestBuildRejectsFilesOutsideRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{
		"env/kustomization.yaml": "resources:\n- ../namespace.yaml\n",
		"namespace.yaml":         "apiVersion: v1\nkind: Namespace\nmetadata:\n  name: api\n",
	})

	_, err := Build(filepath.Join(base, "env"))
	require.Error(t, err)
}
