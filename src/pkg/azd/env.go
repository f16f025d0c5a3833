// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package azd reads and writes the azd environment of a project.
package azd

import (
	"context"
	"fmt"
	"maps"

	"github.com/joho/godotenv"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
	"github.com/azd-bigbang/service-hooks/src/pkg/utils/exec"
	"github.com/azd-bigbang/service-hooks/src/pkg/variables"
)

// Binary is the azd executable looked up on PATH.
const Binary = "azd"

// Store is the environment variable store backed by `azd env`.
// Values set during a run are visible to later reads even when not persisted.
type Store struct {
	projectDir string
	run        exec.Runner
	values     map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithRunner replaces the command runner.
func WithRunner(r exec.Runner) Option {
	return func(s *Store) {
		s.run = r
	}
}

// NewStore returns a Store for the azd project rooted at projectDir.
func NewStore(projectDir string, opts ...Option) *Store {
	s := &Store{
		projectDir: projectDir,
		run:        exec.CmdWithContext,
		values:     map[string]string{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load reads the persisted values of the selected azd environment.
func (s *Store) Load(ctx context.Context) error {
	stdout, _, err := s.run(ctx, exec.Config{Dir: s.projectDir}, Binary, "env", "get-values", "--cwd", s.projectDir)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeTransient, "unable to read the azd environment", err)
	}
	values, err := ParseValues(stdout)
	if err != nil {
		return herrors.Wrap(herrors.ErrCodeInternal, "unable to parse the azd environment", err)
	}
	maps.Copy(s.values, values)
	logger.From(ctx).Debug("loaded azd environment", "project", s.projectDir, "count", len(values))
	return nil
}

// Get returns the value of name.
func (s *Store) Get(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set records name=value for the rest of the run and, when persist is set, writes it to the azd environment.
func (s *Store) Set(ctx context.Context, name, value string, persist bool) error {
	if !variables.IsVariableName(name) {
		return herrors.Newf(herrors.ErrCodeConfiguration, "invalid environment variable name %q", name)
	}
	s.values[name] = value

	if !persist {
		return nil
	}
	cfg := exec.Config{
		Dir:    s.projectDir,
		Redact: []string{value},
	}
	if _, _, err := s.run(ctx, cfg, Binary, "env", "set", name, value, "--cwd", s.projectDir); err != nil {
		return herrors.WrapWithContext(herrors.ErrCodeTransient, "unable to persist azd environment variable", err,
			map[string]any{"name": name})
	}
	logger.From(ctx).Info("persisted azd environment variable", "name", name)
	return nil
}

// Environment returns the process environment overlaid with the store's values.
func (s *Store) Environment() variables.Environment {
	return variables.FromOS().Merge(s.values)
}

// ParseValues parses `azd env get-values` output, which is dotenv formatted.
func ParseValues(out string) (map[string]string, error) {
	values, err := godotenv.Unmarshal(out)
	if err != nil {
		return nil, err
	}
	for key := range values {
		if !variables.IsVariableName(key) {
			return nil, fmt.Errorf("invalid variable name %q", key)
		}
	}
	return values, nil
}
