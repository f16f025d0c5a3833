// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package variables contains the deployment environment and the template substitution engine
package variables

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// templateRegex matches ${NAME} and $NAME the way envsubst does. Anything else after a $ is left untouched,
// including an unterminated ${NAME.
var templateRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// Expand replaces every ${NAME} and $NAME in text with the value of NAME. Unset variables become empty strings.
func (e Environment) Expand(text string) string {
	return templateRegex.ReplaceAllStringFunc(text, func(match string) string {
		sub := templateRegex.FindStringSubmatch(match)
		name := sub[1]
		if name == "" {
			name = sub[2]
		}
		return e.Get(name)
	})
}

// RenderedPath returns the path a template renders to: the template path with suffix removed.
func RenderedPath(templatePath, suffix string) (string, error) {
	if suffix == "" || !strings.HasSuffix(templatePath, suffix) || len(templatePath) == len(suffix) {
		return "", herrors.Newf(herrors.ErrCodeConfiguration, "%s is not a template file, expected the %q suffix", templatePath, suffix)
	}
	return strings.TrimSuffix(templatePath, suffix), nil
}

// ReplaceTextTemplate reads the template at path, substitutes its variables and writes the result next to it with
// suffix removed. The template itself is left in place. It returns the path of the rendered file.
func (e Environment) ReplaceTextTemplate(path, suffix string) (string, error) {
	target, err := RenderedPath(path, suffix)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("unable to read template %s: %w", path, err)
	}
	if info.IsDir() {
		return "", herrors.Newf(herrors.ErrCodeConfiguration, "template %s is a directory", path)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read template %s: %w", path, err)
	}

	rendered := e.Expand(string(contents))

	if err := os.WriteFile(target, []byte(rendered), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("unable to write rendered file %s: %w", target, err)
	}
	return target, nil
}
