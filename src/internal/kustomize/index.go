// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package kustomize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/defenseunicorns/pkg/helpers/v2"
	"github.com/gofrs/flock"
	kyaml "sigs.k8s.io/kustomize/kyaml/yaml"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

// ResourcesField is the kustomization key holding the resource list.
const ResourcesField = "resources"

// Index is a kustomization file whose resources list is only ever appended to.
type Index struct {
	path string
}

// NewIndex returns the Index for the kustomization file at path.
func NewIndex(path string) *Index {
	return &Index{path: path}
}

// EnsureResource appends resource to the resources list unless it is already listed.
// The document is written back in block style with key order and unrelated keys untouched.
// A document without a resources key is a configuration error and is left as is.
func (i *Index) EnsureResource(ctx context.Context, resource string) (bool, error) {
	unlock, err := i.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	info, err := os.Stat(i.path)
	if err != nil {
		return false, herrors.WrapWithContext(herrors.ErrCodeConfiguration, "kustomization not found", err,
			map[string]any{"path": i.path})
	}

	node, err := kyaml.ReadFile(i.path)
	if err != nil {
		return false, herrors.WrapWithContext(herrors.ErrCodeConfiguration, "kustomization is not valid yaml", err,
			map[string]any{"path": i.path})
	}

	resources, err := resourceList(node)
	if err != nil {
		return false, herrors.WrapWithContext(herrors.ErrCodeConfiguration, err.Error(), nil,
			map[string]any{"path": i.path})
	}

	for _, n := range resources.Content() {
		if n.Value == resource {
			logger.From(ctx).Debug("resource already listed", "resource", resource, "kustomization", i.path)
			return false, nil
		}
	}
	resources.YNode().Content = append(resources.YNode().Content, kyaml.NewScalarRNode(resource).YNode())

	blockStyle(node.YNode())
	out, err := node.String()
	if err != nil {
		return false, fmt.Errorf("unable to encode kustomization: %w", err)
	}
	if err := os.WriteFile(i.path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("unable to write kustomization: %w", err)
	}
	return true, nil
}

// Resources returns the entries of the resources list.
func (i *Index) Resources() ([]string, error) {
	node, err := kyaml.ReadFile(i.path)
	if err != nil {
		return nil, err
	}
	resources, err := resourceList(node)
	if err != nil {
		return nil, herrors.Wrap(herrors.ErrCodeConfiguration, err.Error(), nil)
	}
	var out []string
	for _, n := range resources.Content() {
		out = append(out, n.Value)
	}
	return out, nil
}

// resourceList returns the resources sequence node, turning an explicit null into an empty list.
func resourceList(node *kyaml.RNode) (*kyaml.RNode, error) {
	if node.YNode().Kind != kyaml.MappingNode {
		return nil, fmt.Errorf("kustomization is not a mapping")
	}
	field := node.Field(ResourcesField)
	if field == nil {
		return nil, fmt.Errorf("kustomization has no %q key", ResourcesField)
	}
	if field.Value.IsTaggedNull() {
		*field.Value.YNode() = *kyaml.NewListRNode().YNode()
		return field.Value, nil
	}
	if field.Value.YNode().Kind != kyaml.SequenceNode {
		return nil, fmt.Errorf("kustomization %q is not a list", ResourcesField)
	}
	return field.Value, nil
}

func blockStyle(n *kyaml.Node) {
	n.Style &^= kyaml.FlowStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// lock takes a host-wide lock keyed on the kustomization path so concurrent renders serialize.
func (i *Index) lock(ctx context.Context) (func(), error) {
	abs, err := filepath.Abs(i.path)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("azd-hooks-kustomization-%d.lock", helpers.GetCRCHash(abs))
	fl := flock.New(filepath.Join(os.TempDir(), name))
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("unable to lock kustomization %s: %w", i.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("unable to lock kustomization %s", i.path)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			logger.From(ctx).Warn("unable to unlock kustomization", "path", i.path, "error", err)
		}
	}, nil
}
