// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package variables contains the deployment environment and the template substitution engine
package variables

import (
	"os"
	"slices"
	"strings"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// Environment is an immutable mapping from variable name to value. Every mutation returns a
// new Environment so a value set for one render step cannot leak into another.
type Environment struct {
	vars map[string]Variable
}

// NewEnvironment creates an Environment holding a copy of values.
func NewEnvironment(values map[string]string) Environment {
	e := Environment{vars: make(map[string]Variable, len(values))}
	for name, value := range values {
		e.vars[name] = Variable{Name: name, Value: value}
	}
	return e
}

// FromOS creates an Environment from the process environment.
func FromOS() Environment {
	values := map[string]string{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		values[name] = value
	}
	return NewEnvironment(values)
}

func (e Environment) clone(extra int) Environment {
	n := Environment{vars: make(map[string]Variable, len(e.vars)+extra)}
	for name, v := range e.vars {
		n.vars[name] = v
	}
	return n
}

// Get returns the value of name, or an empty string when unset.
func (e Environment) Get(name string) string {
	return e.vars[name].Value
}

// With returns a copy of the Environment with name set to value.
func (e Environment) With(name, value string) Environment {
	n := e.clone(1)
	n.vars[name] = Variable{Name: name, Value: value}
	return n
}

// Merge returns a copy of the Environment overlaid with values.
func (e Environment) Merge(values map[string]string) Environment {
	n := e.clone(len(values))
	for name, value := range values {
		n.vars[name] = Variable{Name: name, Value: value}
	}
	return n
}

// Without returns a copy of the Environment with names removed.
func (e Environment) Without(names ...string) Environment {
	n := e.clone(0)
	for _, name := range names {
		delete(n.vars, name)
	}
	return n
}

// Require returns a configuration error naming every variable in names that is unset or empty.
func (e Environment) Require(names ...string) error {
	missing := []string{}
	for _, name := range names {
		if e.Get(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return herrors.NewWithContext(herrors.ErrCodeConfiguration,
		"required environment variables are not set: "+strings.Join(missing, ", "),
		map[string]any{"missing": missing})
}

// Names returns the sorted variable names.
func (e Environment) Names() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of variables.
func (e Environment) Len() int {
	return len(e.vars)
}
