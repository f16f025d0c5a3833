// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package git

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/defenseunicorns/pkg/helpers/v2"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
)

// DefaultHost expands owner/repo identifiers when no host is configured.
const DefaultHost = "github.com"

// RepoURL returns the https clone URL for repoIdentifier. Full URLs pass through unchanged,
// owner/repo identifiers resolve against host. Credentials in the URL are rejected.
func RepoURL(host, repoIdentifier string) (string, error) {
	id := strings.TrimSpace(repoIdentifier)
	if id == "" {
		return "", herrors.New(herrors.ErrCodeConfiguration, "gitops repository is not set")
	}
	if helpers.IsURL(id) {
		u, err := url.Parse(id)
		if err != nil {
			return "", herrors.Wrap(herrors.ErrCodeConfiguration, "invalid gitops repository url", err)
		}
		if u.User != nil {
			return "", herrors.New(herrors.ErrCodeConfiguration, "gitops repository url must not carry credentials")
		}
		return id, nil
	}

	parts := strings.Split(strings.Trim(id, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", herrors.Newf(herrors.ErrCodeConfiguration, "gitops repository %q is not a url or owner/repo", id)
	}
	if host == "" {
		host = DefaultHost
	}
	return fmt.Sprintf("https://%s/%s/%s.git", host, parts[0], strings.TrimSuffix(parts[1], ".git")), nil
}
