// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package render materializes the templated manifests of a service.
package render

import (
	"context"
	"fmt"
	"os"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/internal/kustomize"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
	"github.com/azd-bigbang/service-hooks/src/pkg/variables"
)

// Renderer renders one service's manifest directory and registers the service in the shared kustomization.
type Renderer struct {
	servicePath       string
	kustomizationPath string
	serviceName       string
	suffix            string
}

// Result lists the files a render produced.
type Result struct {
	Rendered []string
	Resource string
}

// New creates a Renderer for the manifests under servicePath.
func New(servicePath, kustomizationPath, serviceName string) *Renderer {
	return &Renderer{
		servicePath:       servicePath,
		kustomizationPath: kustomizationPath,
		serviceName:       serviceName,
		suffix:            config.TemplateSuffix,
	}
}

// Render substitutes every template under the service path with env, removes each template once its rendered
// file is written, then ensures ./services/<name> is listed in the kustomization resources.
// A template that fails to render stops the render; templates already processed stay rendered.
func (r *Renderer) Render(ctx context.Context, env variables.Environment) (Result, error) {
	l := logger.From(ctx)
	res := Result{}

	for tmpl := range DiscoverTemplates(r.servicePath, r.suffix) {
		l.Debug("rendering template", "path", tmpl)
		out, err := env.ReplaceTextTemplate(tmpl, r.suffix)
		if err != nil {
			return res, fmt.Errorf("unable to render %s: %w", tmpl, err)
		}
		if err := os.Remove(tmpl); err != nil {
			return res, fmt.Errorf("unable to remove template %s: %w", tmpl, err)
		}
		res.Rendered = append(res.Rendered, out)
	}
	l.Info("rendered service manifests", "service", r.serviceName, "files", len(res.Rendered))

	if r.kustomizationPath == "" {
		return res, nil
	}
	res.Resource = config.ServiceResourcePath(r.serviceName)
	added, err := kustomize.NewIndex(r.kustomizationPath).EnsureResource(ctx, res.Resource)
	if err != nil {
		return res, err
	}
	if added {
		l.Info("registered service in kustomization", "resource", res.Resource, "kustomization", r.kustomizationPath)
	}
	return res, nil
}
