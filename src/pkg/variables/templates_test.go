// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package variables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	env := NewEnvironment(map[string]string{
		"SERVICE_NAME":           "api",
		"SERVICE_API_IMAGE_REPO": "registry.azurecr.io/api",
		"SERVICE_API_IMAGE_TAG":  "azd-deploy-1700000000",
		"EMPTY":                  "",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "braced", in: "name: ${SERVICE_NAME}", want: "name: api"},
		{name: "bare", in: "name: $SERVICE_NAME", want: "name: api"},
		{name: "unset", in: "name: ${MISSING}", want: "name: "},
		{name: "unset bare", in: "name: $MISSING-suffix", want: "name: -suffix"},
		{name: "set but empty", in: "[${EMPTY}]", want: "[]"},
		{name: "adjacent", in: "${SERVICE_API_IMAGE_REPO}:${SERVICE_API_IMAGE_TAG}", want: "registry.azurecr.io/api:azd-deploy-1700000000"},
		{name: "bare name stops at non name char", in: "$SERVICE_NAME.svc", want: "api.svc"},
		{name: "lone dollar", in: "cost: $ 5", want: "cost: $ 5"},
		{name: "digit after dollar", in: "$1", want: "$1"},
		{name: "unterminated brace", in: "${SERVICE_NAME", want: "${SERVICE_NAME"},
		{name: "default syntax is not expanded", in: "${SERVICE_NAME:-x}", want: "${SERVICE_NAME:-x}"},
		{name: "multiline", in: "a: $SERVICE_NAME\nb: ${SERVICE_NAME}\n", want: "a: api\nb: api\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, env.Expand(tt.in))
		})
	}
}

func TestReplaceTextTemplate(t *testing.T) {
	t.Parallel()

	t.Run("set variable", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "namespace.yaml.tmpl")
		require.NoError(t, os.WriteFile(src, []byte("name: ${X}"), 0o644))

		out, err := NewEnvironment(map[string]string{"X": "v"}).ReplaceTextTemplate(src, ".tmpl")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "namespace.yaml"), out)

		b, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Equal(t, "name: v", string(b))
		require.FileExists(t, src)
	})

	t.Run("unset variable", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "values.yaml.tmpl")
		require.NoError(t, os.WriteFile(src, []byte("${X}"), 0o644))

		out, err := NewEnvironment(nil).ReplaceTextTemplate(src, ".tmpl")
		require.NoError(t, err)
		b, err := os.ReadFile(out)
		require.NoError(t, err)
		require.Empty(t, string(b))
		require.FileExists(t, src)
	})

	t.Run("not a template", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		src := filepath.Join(dir, "values.yaml")
		require.NoError(t, os.WriteFile(src, []byte("a: b"), 0o644))

		_, err := NewEnvironment(nil).ReplaceTextTemplate(src, ".tmpl")
		require.ErrorIs(t, err, herrors.ErrConfiguration)
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()
		_, err := NewEnvironment(nil).ReplaceTextTemplate(filepath.Join(t.TempDir(), "gone.yaml.tmpl"), ".tmpl")
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestRenderedPath(t *testing.T) {
	t.Parallel()

	got, err := RenderedPath("/a/b/deployment.yaml.tmpl", ".tmpl")
	require.NoError(t, err)
	require.Equal(t, "/a/b/deployment.yaml", got)

	_, err = RenderedPath(".tmpl", ".tmpl")
	require.Error(t, err)

	_, err = RenderedPath("/a/b/deployment.yaml", ".tmpl")
	require.Error(t, err)
}
