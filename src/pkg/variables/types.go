// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package variables contains the deployment environment and the template substitution engine
package variables

import (
	"regexp"
)

var (
	// IsVariableName reports whether a string is a name envsubst would substitute.
	IsVariableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`).MatchString
)

// Variable represents a variable that has a value set for the current run
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
