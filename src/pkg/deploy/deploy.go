// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package deploy renders the templated manifests of an azd project into its GitOps repository.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/defenseunicorns/pkg/helpers/v2"

	"github.com/azd-bigbang/service-hooks/src/config"
	"github.com/azd-bigbang/service-hooks/src/internal/git"
	"github.com/azd-bigbang/service-hooks/src/internal/kustomize"
	"github.com/azd-bigbang/service-hooks/src/internal/render"
	"github.com/azd-bigbang/service-hooks/src/pkg/cluster"
	herrors "github.com/azd-bigbang/service-hooks/src/pkg/errors"
	"github.com/azd-bigbang/service-hooks/src/pkg/logger"
	"github.com/azd-bigbang/service-hooks/src/pkg/variables"
)

// Phase is a step of a deployment run.
type Phase string

// Phases in the order a run moves through them.
const (
	PhaseInit          Phase = "INIT"
	PhaseEnvLoaded     Phase = "ENV_LOADED"
	PhasePreconditions Phase = "PRECONDITIONS_CHECKED"
	PhaseRepoCloned    Phase = "REPO_CLONED"
	PhaseCopied        Phase = "COPIED"
	PhaseRendered      Phase = "RENDERED"
	PhasePushed        Phase = "PUSHED"
	PhaseDone          Phase = "DONE"
)

// Options configures a Deployer.
type Options struct {
	// ProjectDir is the azd project root holding .azure and the deployment manifest.
	ProjectDir string
	// Manifest is the deployment manifest file name, relative to ProjectDir.
	Manifest string
	// ContinueOnError keeps deploying the remaining services after a service fails.
	ContinueOnError bool
	// Verify builds the environment kustomization before every push.
	Verify bool
	// WorkDir is where the GitOps workspace is created. Empty means the OS temp dir.
	WorkDir string
	Git     git.Options
}

// ServiceResult is the outcome of deploying one service.
type ServiceResult struct {
	Name     string
	Phase    Phase
	Files    int
	Pushed   bool
	Duration time.Duration
	Err      error
}

// Report summarizes a deployment run.
type Report struct {
	Phase    Phase
	Services []ServiceResult
}

// Failed returns the number of services that failed.
func (r Report) Failed() int {
	n := 0
	for _, s := range r.Services {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Deployer publishes the services of an azd project to the environment's GitOps repository.
type Deployer struct {
	opts      Options
	directory cluster.Directory
}

// New returns a Deployer. directory may be nil, in which case the access token is only read from the environment.
func New(opts Options, directory cluster.Directory) *Deployer {
	if opts.Manifest == "" {
		opts.Manifest = config.DeploymentManifest
	}
	if opts.Git.Host == "" {
		opts.Git.Host = config.DefaultGitOpsHost
	}
	if opts.Git.AuthorName == "" {
		opts.Git.AuthorName = config.DefaultAuthorName
	}
	if opts.Git.AuthorEmail == "" {
		opts.Git.AuthorEmail = config.DefaultAuthorEmail
	}
	return &Deployer{opts: opts, directory: directory}
}

// Run deploys every service of the deployment manifest using env, the loaded azd environment.
// Failures before the clone abort the run. A service failure aborts the run unless ContinueOnError is set,
// in which case its changes are discarded and the run reports the failure once all services were attempted.
func (d *Deployer) Run(ctx context.Context, env variables.Environment) (Report, error) {
	l := logger.From(ctx)
	report := Report{Phase: PhaseEnvLoaded}

	env, token, err := d.preconditions(ctx, env)
	if err != nil {
		return report, err
	}
	l = logger.Redact(l, token)
	ctx = logger.WithContext(ctx, l)
	services, err := LoadManifest(filepath.Join(d.opts.ProjectDir, d.opts.Manifest))
	if err != nil {
		return report, err
	}
	report.Phase = PhasePreconditions
	l.Debug("preconditions checked", "services", len(services), "variables", env.Len())

	workspace, err := os.MkdirTemp(d.opts.WorkDir, "gitops-")
	if err != nil {
		return report, fmt.Errorf("unable to create the gitops workspace: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			l.Warn("unable to remove the gitops workspace", "path", workspace, "error", err)
		}
	}()

	gitOpts := d.opts.Git
	gitOpts.Token = token
	repo, err := git.Clone(ctx, env.Get(config.EnvGitOpsRepo), env.Get(config.EnvGitOpsReleaseBranch),
		filepath.Join(workspace, "repo"), gitOpts)
	if err != nil {
		return report, err
	}
	report.Phase = PhaseRepoCloned

	envPath := filepath.Join(append([]string{repo.Path()}, config.GitOpsEnvironmentPath(env.Get(config.EnvAKSEnvironmentName))...)...)
	for _, svc := range services {
		res := d.deployService(ctx, repo, envPath, svc, env)
		report.Services = append(report.Services, res)
		if res.Err == nil {
			continue
		}
		l.Error("service deployment failed", "service", svc.Name, "phase", res.Phase, "error", res.Err)
		if !d.opts.ContinueOnError {
			return report, res.Err
		}
		if err := repo.Discard(ctx); err != nil {
			return report, fmt.Errorf("unable to discard the changes of %s: %w", svc.Name, err)
		}
	}
	report.Phase = PhaseDone

	if failed := report.Failed(); failed > 0 {
		return report, herrors.Newf(herrors.ErrCodeInternal, "%d of %d services failed to deploy", failed, len(report.Services))
	}
	return report, nil
}

// preconditions validates the local configuration and returns the environment used for rendering
// together with the access token.
func (d *Deployer) preconditions(ctx context.Context, env variables.Environment) (variables.Environment, string, error) {
	azureDir := filepath.Join(d.opts.ProjectDir, config.AzureDir)
	if !helpers.IsDir(azureDir) {
		return env, "", herrors.NewWithContext(herrors.ErrCodeConfiguration,
			fmt.Sprintf("the %s folder in %s does not exist, run 'azd init' to set up your environment", config.AzureDir, d.opts.ProjectDir),
			map[string]any{"path": azureDir})
	}
	err := env.Require(config.EnvServiceImageName, config.EnvAKSEnvironmentName, config.EnvGitOpsRepo, config.EnvGitOpsReleaseBranch)
	if err != nil {
		return env, "", err
	}

	repo, tag, err := SplitImage(env.Get(config.EnvServiceImageName))
	if err != nil {
		return env, "", err
	}
	env = env.With(config.EnvServiceImageRepo, repo).With(config.EnvServiceImageTag, tag)

	token, err := d.accessToken(ctx, env)
	if err != nil {
		return env, "", err
	}
	// The token must never reach a rendered manifest.
	return env.Without(config.EnvGitHubToken), token, nil
}

// accessToken reads the GitOps access token from the environment's secret store,
// falling back to the token already present in env.
func (d *Deployer) accessToken(ctx context.Context, env variables.Environment) (string, error) {
	l := logger.From(ctx)
	fallback := env.Get(config.EnvGitHubToken)
	if d.directory == nil {
		return requireToken(fallback)
	}

	store, err := d.directory.GetSecretStore(ctx, env.Get(config.EnvAKSEnvironmentName),
		env.Get(config.EnvSubscriptionID), env.Get(config.EnvResourceGroup))
	if err == nil {
		var token string
		token, err = d.directory.GetSecret(ctx, store, config.GitOpsTokenSecretName)
		if err == nil && token != "" {
			l.Info("read the gitops access token", "store", store.Name, "secret", config.GitOpsTokenSecretName)
			return token, nil
		}
	}
	if fallback == "" {
		if err != nil {
			return "", err
		}
		return requireToken(fallback)
	}
	if err != nil && !errors.Is(err, herrors.ErrNotFound) {
		l.Warn("unable to read the gitops access token from the secret store, using "+config.EnvGitHubToken, "error", err)
	}
	return fallback, nil
}

func requireToken(token string) (string, error) {
	if token == "" {
		return "", herrors.Newf(herrors.ErrCodeUnauthorized,
			"no gitops access token found, store it as the %s secret or set %s", config.GitOpsTokenSecretName, config.EnvGitHubToken)
	}
	return token, nil
}

func (d *Deployer) deployService(ctx context.Context, repo *git.Repository, envPath string, svc Service, env variables.Environment) ServiceResult {
	l := logger.From(ctx).With("service", svc.Name)
	ctx = logger.WithContext(ctx, l)
	start := time.Now()
	res := ServiceResult{Name: svc.Name, Phase: PhaseRepoCloned}
	done := func(err error) ServiceResult {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	l.Info("deploying service")
	env = env.With(config.EnvServiceName, svc.Name)
	servicePath := filepath.Join(envPath, config.ServicesDir, svc.Name)

	n, err := CopyTemplates(svc.ManifestPath(d.opts.ProjectDir), servicePath)
	if err != nil {
		return done(err)
	}
	res.Phase = PhaseCopied
	l.Debug("copied templates", "count", n, "destination", servicePath)

	rendered, err := render.New(servicePath, filepath.Join(envPath, config.KustomizationFile), svc.Name).Render(ctx, env)
	if err != nil {
		return done(err)
	}
	res.Files = len(rendered.Rendered)
	res.Phase = PhaseRendered

	if d.opts.Verify {
		if err := kustomize.Verify(ctx, envPath); err != nil {
			return done(err)
		}
	}

	pushed, err := repo.PushChanges(ctx, config.CommitMessage(svc.Name))
	if err != nil {
		return done(err)
	}
	res.Pushed = pushed
	res.Phase = PhasePushed
	l.Info("service deployed", "files", res.Files, "pushed", pushed)
	return done(nil)
}
