// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package deploy

import (
	"github.com/distribution/reference"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// SplitImage splits a container image name into its repository and tag. The tag is required.
func SplitImage(image string) (string, string, error) {
	ref, err := reference.Parse(image)
	if err != nil {
		return "", "", herrors.Wrap(herrors.ErrCodeConfiguration, "invalid image name "+image, err)
	}
	named, ok := ref.(reference.Named)
	if !ok {
		return "", "", herrors.Newf(herrors.ErrCodeConfiguration, "image %s has no repository", image)
	}
	tagged, ok := ref.(reference.Tagged)
	if !ok {
		return "", "", herrors.Newf(herrors.ErrCodeConfiguration, "image %s has no tag", image)
	}
	return named.Name(), tagged.Tag(), nil
}
