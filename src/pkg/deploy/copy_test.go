// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package deploy

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/test/testutil"
)

func TestCopyTemplates(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"deployment.yaml.tmpl":   "image: ${SERVICE_API_IMAGE_NAME}\n",
		"nested/svc.yaml.tmpl":   "name: ${SERVICE_NAME}\n",
		"README.md":              "docs\n",
		"nested/static.yaml":     "kind: ConfigMap\n",
		"nested/deeper/cm.tmpl":  "a: b\n",
		"nested/deeper/notes.md": "skip\n",
	})
	dst := filepath.Join(t.TempDir(), "services", "api")
	testutil.WriteTree(t, dst, map[string]string{"existing.yaml": "keep\n"})

	n, err := CopyTemplates(src, dst)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, map[string]string{
		"existing.yaml":         "keep\n",
		"deployment.yaml.tmpl":  "image: ${SERVICE_API_IMAGE_NAME}\n",
		"nested/svc.yaml.tmpl":  "name: ${SERVICE_NAME}\n",
		"nested/deeper/cm.tmpl": "a: b\n",
	}, testutil.ReadTree(t, dst))
}

func TestCopyTemplatesMissingSource(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "dst")
	_, err := CopyTemplates(filepath.Join(t.TempDir(), "missing"), dst)
	require.ErrorIs(t, err, herrors.ErrConfiguration)
	require.NoDirExists(t, dst)
}
