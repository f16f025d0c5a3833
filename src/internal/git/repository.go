// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package git clones GitOps repositories and publishes rendered manifests back to them.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
)

const remoteName = "origin"

// tokenUsername is sent with the access token. Git hosts accept any non-empty name for token auth.
const tokenUsername = "x-access-token"

// Options configures clone and push.
type Options struct {
	// Token authenticates against the remote. It is only held in memory.
	Token string
	// Host is used to expand owner/repo identifiers into URLs.
	Host        string
	AuthorName  string
	AuthorEmail string
	// Attempts bounds clone retries on transient failures.
	Attempts uint
}

// Repository is a shallow single branch clone owned by one deployment run.
type Repository struct {
	path   string
	branch string
	url    string
	auth   *http.BasicAuth
	author object.Signature
	// published is the last commit known to be on the remote branch.
	published plumbing.Hash
}

// Path returns the local path the repository is stored at.
func (r *Repository) Path() string {
	return r.path
}

// Branch returns the tracked branch.
func (r *Repository) Branch() string {
	return r.branch
}

// Clone shallow clones branch of the repository named by repoIdentifier into dir.
// Authentication failures surface as unauthorized errors and a missing repository or branch as not found.
// Other failures are retried.
func Clone(ctx context.Context, repoIdentifier, branch, dir string, opts Options) (*Repository, error) {
	l := logger.From(ctx)
	if opts.Token == "" {
		return nil, herrors.New(herrors.ErrCodeUnauthorized, "an access token is required to clone the gitops repository")
	}
	if branch == "" {
		return nil, herrors.New(herrors.ErrCodeConfiguration, "a release branch is required to clone the gitops repository")
	}
	url, err := RepoURL(opts.Host, repoIdentifier)
	if err != nil {
		return nil, err
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}

	r := &Repository{
		path:   dir,
		branch: branch,
		url:    url,
		auth: &http.BasicAuth{
			Username: tokenUsername,
			Password: opts.Token,
		},
		author: object.Signature{
			Name:  opts.AuthorName,
			Email: opts.AuthorEmail,
		},
	}

	cloneOpts := &git.CloneOptions{
		URL:           url,
		RemoteName:    remoteName,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Tags:          git.NoTags,
		Auth:          r.auth,
	}

	start := time.Now()
	err = retry.Do(func() error {
		repo, err := git.PlainCloneContext(ctx, dir, false, cloneOpts)
		if err == nil {
			head, err := repo.Head()
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("unable to resolve the cloned HEAD: %w", err))
			}
			r.published = head.Hash()
			return nil
		}
		// A failed clone can leave a partial repository behind.
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return retry.Unrecoverable(rmErr)
		}
		cerr := classify(err, "unable to clone "+url)
		if !herrors.IsRetryable(cerr) {
			return retry.Unrecoverable(cerr)
		}
		l.Debug("retrying clone", "url", url, "branch", branch, "error", err)
		return cerr
	}, retry.Context(ctx), retry.Attempts(opts.Attempts), retry.Delay(500*time.Millisecond), retry.LastErrorOnly(true))
	if err != nil {
		return nil, err
	}
	l.Info("cloned gitops repository", "url", url, "branch", branch, "duration", time.Since(start))
	return r, nil
}

// PushChanges stages everything in the working tree, commits it with message and pushes the tracked branch.
// A clean working tree is not an error: nothing is committed and false is returned.
func (r *Repository) PushChanges(ctx context.Context, message string) (bool, error) {
	l := logger.From(ctx)
	repo, err := git.PlainOpen(r.path)
	if err != nil {
		return false, fmt.Errorf("not a valid git repo or unable to open: %w", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("unable to load the git worktree: %w", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, fmt.Errorf("unable to stage changes: %w", err)
	}
	status, err := w.Status()
	if err != nil {
		return false, fmt.Errorf("unable to read worktree status: %w", err)
	}
	if status.IsClean() {
		l.Info("no manifest changes to publish", "branch", r.branch)
		return false, nil
	}

	author := r.author
	author.When = time.Now()
	hash, err := w.Commit(message, &git.CommitOptions{Author: &author})
	if err != nil {
		return false, fmt.Errorf("unable to commit changes: %w", err)
	}

	ref := plumbing.NewBranchReferenceName(r.branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		Auth:       r.auth,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("%s:%s", ref, ref))},
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		l.Debug("remote already up-to-date", "branch", r.branch)
	} else if err != nil {
		return false, classify(err, "unable to push to "+r.url)
	}
	r.published = hash
	l.Info("published manifest changes", "commit", hash.String(), "branch", r.branch, "message", message)
	return true, nil
}

// Discard drops every local change and unpublished commit, returning the working tree to the last
// commit known to be on the remote branch.
func (r *Repository) Discard(ctx context.Context) error {
	repo, err := git.PlainOpen(r.path)
	if err != nil {
		return fmt.Errorf("not a valid git repo or unable to open: %w", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("unable to load the git worktree: %w", err)
	}
	if err := w.Reset(&git.ResetOptions{Commit: r.published, Mode: git.HardReset}); err != nil {
		return fmt.Errorf("unable to reset to %s: %w", r.published, err)
	}
	if err := w.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("unable to remove untracked files: %w", err)
	}
	logger.From(ctx).Debug("discarded local changes", "commit", r.published.String(), "branch", r.branch)
	return nil
}
