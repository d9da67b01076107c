// Package forks enforces the naming and description policy on the
// authenticated user's forked repositories: every public fork tagged
// with the configured topic must be named
// <parent-owner>--<parent-name>--<topic> and carry the description tag.
package forks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/rindeal/repokeeper/pkg/config"
	"github.com/rindeal/repokeeper/pkg/errors"
	"github.com/rindeal/repokeeper/pkg/logging"
	"github.com/rindeal/repokeeper/pkg/types"
)

// SearchService is the slice of the GitHub search API the enforcer needs
type SearchService interface {
	Repositories(ctx context.Context, query string, opts *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error)
}

// RepositoriesService is the slice of the GitHub repositories API the
// enforcer needs
type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, repository *github.Repository) (*github.Repository, *github.Response, error)
}

// Enforcer applies the fork policy through the GitHub API
type Enforcer struct {
	search SearchService
	repos  RepositoriesService
	cfg    config.ForksConfig
	dryRun bool
	logger zerolog.Logger
}

// NewClient builds an authenticated GitHub client from a token
func NewClient(ctx context.Context, token string) *github.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(ctx, ts))
}

// NewEnforcer creates an Enforcer backed by the given client
func NewEnforcer(client *github.Client, cfg config.ForksConfig, dryRun bool) *Enforcer {
	return &Enforcer{
		search: client.Search,
		repos:  client.Repositories,
		cfg:    cfg,
		dryRun: dryRun,
		logger: logging.GetLogger("forks.enforce"),
	}
}

// Run searches the authenticated user's tagged public forks and brings
// each one into policy. Per-repository failures are recorded in the
// results; search failures abort the run.
func (e *Enforcer) Run(ctx context.Context) ([]types.ForkResult, error) {
	query := fmt.Sprintf("user:@me is:public fork:true topic:%s", e.cfg.Topic)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}

	var results []types.ForkResult
	for {
		page, resp, err := e.search.Repositories(ctx, query, opts)
		if err != nil {
			return results, errors.Wrapf(err, errors.ErrGitHubSearch, "repository search %q failed", query)
		}
		for _, hit := range page.Repositories {
			results = append(results, e.processRepository(ctx, hit))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return results, nil
}

// processRepository enforces the expected name and description tag on
// one fork
func (e *Enforcer) processRepository(ctx context.Context, hit *github.Repository) types.ForkResult {
	owner := hit.GetOwner().GetLogin()
	name := hit.GetName()
	res := types.ForkResult{Name: name}

	// Search results omit the parent; fetch the full repository
	repo, _, err := e.repos.Get(ctx, owner, name)
	if err != nil {
		res.Err = errors.Wrapf(err, errors.ErrGitHubSearch, "cannot fetch repository %s/%s", owner, name)
		return res
	}

	parent := repo.GetParent()
	if parent == nil {
		res.Err = errors.Newf(errors.ErrGitHubEdit, "repository %s/%s has no parent", owner, name)
		return res
	}

	expected := fmt.Sprintf("%s--%s--%s", parent.GetOwner().GetLogin(), parent.GetName(), e.cfg.Topic)
	if repo.GetName() != expected {
		e.logger.Warn().Str("repo", repo.GetName()).Str("expected", expected).Msg("Changing repository name")
		if !e.dryRun {
			if _, _, err := e.repos.Edit(ctx, owner, name, &github.Repository{Name: github.String(expected)}); err != nil {
				res.Err = errors.Wrapf(err, errors.ErrGitHubEdit, "cannot rename %s/%s", owner, name)
				return res
			}
			// Subsequent edits must address the repository by its new name
			name = expected
		}
		res.Renamed = true
		res.NewName = expected
	}

	desc := repo.GetDescription()
	if !strings.Contains(desc, e.cfg.DescriptionTag) {
		newDesc := e.cfg.DescriptionTag
		if desc != "" {
			newDesc = e.cfg.DescriptionTag + " " + desc
		}
		e.logger.Warn().Str("repo", name).Str("from", desc).Str("to", newDesc).Msg("Changing repository description")
		if !e.dryRun {
			if _, _, err := e.repos.Edit(ctx, owner, name, &github.Repository{Description: github.String(newDesc)}); err != nil {
				res.Err = errors.Wrapf(err, errors.ErrGitHubEdit, "cannot edit description of %s/%s", owner, name)
				return res
			}
		}
		res.Retagged = true
		res.Description = newDesc
	}

	e.logger.Info().Str("repo", name).Msg("Processed repository")
	return res
}
