// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package deploy

import (
	"fmt"
	"os"
	"strings"

	"github.com/defenseunicorns/pkg/helpers/v2"
	"github.com/otiai10/copy"

	"github.com/azd-bigbang/service-hooks/src/config"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// CopyTemplates copies every template below src into dst, keeping relative paths.
// Files without the template suffix are not copied. It returns the number of files copied.
func CopyTemplates(src, dst string) (int, error) {
	if !helpers.IsDir(src) {
		return 0, herrors.NewWithContext(herrors.ErrCodeConfiguration,
			fmt.Sprintf("manifest directory %s does not exist", src),
			map[string]any{"path": src})
	}

	n := 0
	opts := copy.Options{
		Skip: func(info os.FileInfo, path, _ string) (bool, error) {
			if info.IsDir() {
				return false, nil
			}
			if !strings.HasSuffix(path, config.TemplateSuffix) {
				return true, nil
			}
			n++
			return false, nil
		},
		OnSymlink: func(string) copy.SymlinkAction { return copy.Deep },
	}
	if err := copy.Copy(src, dst, opts); err != nil {
		return n, fmt.Errorf("unable to copy templates from %s: %w", src, err)
	}
	return n, nil
}
