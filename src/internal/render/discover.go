// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package render materializes the templated manifests of a service.
package render

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// DiscoverTemplates walks root and yields the absolute path of every file whose name ends with suffix.
// Paths come in directory traversal order. A missing root, or any directory that cannot be read,
// contributes nothing instead of failing the walk.
func DiscoverTemplates(root, suffix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return
		}
		//nolint:errcheck // walk errors are skipped, and an early stop surfaces as fs.SkipAll
		filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != abs {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
				return nil
			}
			if !yield(path) {
				return fs.SkipAll
			}
			return nil
		})
	}
}
