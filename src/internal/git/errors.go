// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package git

import (
	"errors"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// classify maps go-git failures onto the hook error codes.
func classify(err error, msg string) error {
	var noRef git.NoMatchingRefSpecError
	switch {
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return herrors.Wrap(herrors.ErrCodeUnauthorized, msg+", check that the access token is valid", err)
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, transport.ErrEmptyRemoteRepository),
		errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.As(err, &noRef):
		return herrors.Wrap(herrors.ErrCodeNotFound, msg+", check the repository and release branch", err)
	case errors.Is(err, git.ErrForceNeeded), errors.Is(err, git.ErrNonFastForwardUpdate),
		strings.Contains(err.Error(), "non-fast-forward"), strings.Contains(err.Error(), "rejected"):
		return herrors.Wrap(herrors.ErrCodeConflict, msg+", the remote branch has diverged", err)
	default:
		return herrors.Wrap(herrors.ErrCodeTransient, msg, err)
	}
}
