// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fluxcd/gitkit"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// GitServer is an in-process smart HTTP git server.
type GitServer struct {
	URL   string
	dir   string
	token string
}

// GitServerOption adjusts the server configuration before it starts.
type GitServerOption func(*gitkit.Config)

// WithoutAutoCreate makes the server answer 404 for repositories that were never seeded.
func WithoutAutoCreate() GitServerOption {
	return func(cfg *gitkit.Config) {
		cfg.AutoCreate = false
	}
}

// NewGitServer starts a git server for the test. When token is set every request must present it as password.
func NewGitServer(t *testing.T, token string, opts ...GitServerOption) *GitServer {
	t.Helper()

	cfg := gitkit.Config{
		Dir:        t.TempDir(),
		AutoCreate: true,
		Auth:       token != "",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	gitSrv := gitkit.New(cfg)
	if token != "" {
		gitSrv.AuthFunc = func(cred gitkit.Credential, _ *gitkit.Request) (bool, error) {
			return cred.Password == token, nil
		}
	}
	require.NoError(t, gitSrv.Setup())
	srv := httptest.NewServer(http.HandlerFunc(gitSrv.ServeHTTP))
	t.Cleanup(func() {
		srv.Close()
	})
	return &GitServer{URL: srv.URL, dir: cfg.Dir, token: token}
}

// RepoURL returns the clone URL of the named repository.
func (s *GitServer) RepoURL(name string) string {
	return fmt.Sprintf("%s/%s.git", s.URL, name)
}

func (s *GitServer) auth() transport.AuthMethod {
	if s.token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "test", Password: s.token}
}

// Seed pushes a single commit holding files to branch of the named repository.
func (s *GitServer) Seed(t *testing.T, name, branch string, files map[string]string) {
	t.Helper()

	ref := plumbing.NewBranchReferenceName(branch)
	fs := memfs.New()
	initRepo, err := git.InitWithOptions(memory.NewStorage(), fs, git.InitOptions{DefaultBranch: ref})
	require.NoError(t, err)
	w, err := initRepo.Worktree()
	require.NoError(t, err)
	for p, body := range files {
		f, err := fs.Create(p)
		require.NoError(t, err)
		_, err = f.Write([]byte(body))
		require.NoError(t, err)
		require.NoError(t, f.Close())
		_, err = w.Add(p)
		require.NoError(t, err)
	}
	_, err = w.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "seed",
			Email: "seed@example.com",
		},
	})
	require.NoError(t, err)
	_, err = initRepo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{s.RepoURL(name)},
	})
	require.NoError(t, err)
	err = initRepo.Push(&git.PushOptions{
		RemoteName: "origin",
		Auth:       s.auth(),
	})
	require.NoError(t, err)

	// Point HEAD at the seeded branch instead of whatever the host gitconfig defaults to.
	headFile := filepath.Join(s.dir, name+".git", "HEAD")
	err = os.WriteFile(headFile, []byte("ref: "+ref.String()+"\n"), 0644)
	require.NoError(t, err, "Failed to write HEAD to disk")
}

// Snapshot is the state of a remote branch.
type Snapshot struct {
	Commits []string
	fs      billy.Filesystem
}

// File returns the content of path at the branch head.
func (s Snapshot) File(t *testing.T, path string) string {
	t.Helper()

	f, err := s.fs.Open(path)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(b)
}

// Exists reports whether path exists at the branch head.
func (s Snapshot) Exists(path string) bool {
	_, err := s.fs.Stat(path)
	return err == nil
}

// Snapshot clones branch of the named repository into memory.
func (s *GitServer) Snapshot(t *testing.T, name, branch string) Snapshot {
	t.Helper()

	fs := memfs.New()
	repo, err := git.Clone(memory.NewStorage(), fs, &git.CloneOptions{
		URL:           s.RepoURL(name),
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Auth:          s.auth(),
	})
	require.NoError(t, err)
	iter, err := repo.Log(&git.LogOptions{})
	require.NoError(t, err)
	snap := Snapshot{fs: fs}
	err = iter.ForEach(func(c *object.Commit) error {
		snap.Commits = append(snap.Commits, c.Message)
		return nil
	})
	require.NoError(t, err)
	return snap
}
