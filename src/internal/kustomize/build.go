// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package kustomize maintains the GitOps kustomization index and builds kustomizations.
package kustomize

import (
	"context"
	"fmt"

	"sigs.k8s.io/kustomize/api/krusty"
	"sigs.k8s.io/kustomize/kyaml/filesys"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

// Build reads the kustomization in path and builds it into a single yaml document stream.
// Resources must stay below path, as the GitOps controller requires.
func Build(path string) ([]byte, error) {
	kustomizer := krusty.MakeKustomizer(krusty.MakeDefaultOptions())
	resources, err := kustomizer.Run(filesys.MakeFsOnDisk(), path)
	if err != nil {
		return nil, err
	}

	yaml, err := resources.AsYaml()
	if err != nil {
		return nil, fmt.Errorf("problem converting kustomization to yaml: %w", err)
	}
	return yaml, nil
}

// Verify builds the kustomization in path and discards the output, failing when the tree
// would be rejected by the GitOps controller.
func Verify(ctx context.Context, path string) error {
	out, err := Build(path)
	if err != nil {
		return herrors.WrapWithContext(herrors.ErrCodeConfiguration, "kustomization does not build", err,
			map[string]any{"path": path})
	}
	logger.From(ctx).Debug("kustomization builds", "path", path, "bytes", len(out))
	return nil
}
