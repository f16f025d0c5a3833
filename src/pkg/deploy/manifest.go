// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package deploy

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goyaml "github.com/goccy/go-yaml"

	"github.com/azd-bigbang/service-hooks/src/config"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// Service describes one service of the deployment manifest.
type Service struct {
	Name string
	// Project is the service source directory relative to the project root.
	Project string
	// ManifestSubdir holds the service's templated manifests below Project.
	ManifestSubdir string
}

// ManifestPath returns the directory holding the service's templated manifests.
func (s Service) ManifestPath(projectDir string) string {
	return filepath.Join(projectDir, s.Project, s.ManifestSubdir)
}

type serviceSpec struct {
	Project string `yaml:"project"`
	K8s     struct {
		DeploymentPath string `yaml:"deploymentPath"`
	} `yaml:"k8s"`
}

type manifestDoc struct {
	Services goyaml.MapSlice `yaml:"services"`
}

// LoadManifest reads the services of the deployment manifest at path in declaration order.
func LoadManifest(path string) ([]Service, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, herrors.NewWithContext(herrors.ErrCodeConfiguration,
			fmt.Sprintf("deployment manifest %s does not exist, run 'azd init'", path),
			map[string]any{"path": path})
	}
	if err != nil {
		return nil, err
	}
	return ParseManifest(b)
}

// ParseManifest parses a deployment manifest document.
func ParseManifest(b []byte) ([]Service, error) {
	var doc manifestDoc
	if err := goyaml.Unmarshal(b, &doc); err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeConfiguration, "unable to parse the deployment manifest", err)
	}
	if len(doc.Services) == 0 {
		return nil, herrors.New(herrors.ErrCodeConfiguration, "no services found in the deployment manifest")
	}

	services := make([]Service, 0, len(doc.Services))
	for _, item := range doc.Services {
		name, ok := item.Key.(string)
		if !ok || name == "" {
			return nil, herrors.Newf(herrors.ErrCodeConfiguration, "service name %v is not a string", item.Key)
		}
		if name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
			return nil, herrors.NewWithContext(herrors.ErrCodeConfiguration,
				fmt.Sprintf("service name %q must not contain path separators or ..", name),
				map[string]any{"service": name})
		}
		raw, err := goyaml.Marshal(item.Value)
		if err != nil {
			return nil, err
		}
		var spec serviceSpec
		if err := goyaml.Unmarshal(raw, &spec); err != nil {
			return nil, herrors.Wrap(herrors.ErrCodeConfiguration, "invalid service "+name, err)
		}
		if spec.Project == "" {
			return nil, herrors.NewWithContext(herrors.ErrCodeConfiguration,
				fmt.Sprintf("project directory path not found for service %s, add a project property to the service", name),
				map[string]any{"service": name})
		}
		subdir := spec.K8s.DeploymentPath
		if subdir == "" {
			subdir = config.DefaultManifestSubdir
		}
		services = append(services, Service{Name: name, Project: spec.Project, ManifestSubdir: subdir})
	}
	return services, nil
}
