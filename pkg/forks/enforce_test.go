package forks

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindeal/repokeeper/pkg/config"
	"github.com/rindeal/repokeeper/pkg/logging"
)

func testForksConfig() config.ForksConfig {
	return config.ForksConfig{
		Topic:          "dev-fork",
		DescriptionTag: "[DEV-FORK]",
	}
}

// fakeGitHub implements SearchService and RepositoriesService in memory
type fakeGitHub struct {
	repos map[string]*github.Repository // keyed by name
	edits []repoEdit
}

type repoEdit struct {
	owner, repo string
	patch       *github.Repository
}

func (f *fakeGitHub) Repositories(ctx context.Context, query string, opts *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error) {
	result := &github.RepositoriesSearchResult{}
	for _, r := range f.repos {
		// search results carry only the shallow repository
		result.Repositories = append(result.Repositories, &github.Repository{
			Name:  r.Name,
			Owner: r.Owner,
		})
	}
	return result, &github.Response{NextPage: 0}, nil
}

func (f *fakeGitHub) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	r, ok := f.repos[repo]
	if !ok {
		return nil, nil, fmt.Errorf("repository %s/%s not found", owner, repo)
	}
	return r, &github.Response{}, nil
}

func (f *fakeGitHub) Edit(ctx context.Context, owner, repo string, patch *github.Repository) (*github.Repository, *github.Response, error) {
	f.edits = append(f.edits, repoEdit{owner: owner, repo: repo, patch: patch})
	r := f.repos[repo]
	if patch.Name != nil {
		delete(f.repos, repo)
		r.Name = patch.Name
		f.repos[patch.GetName()] = r
	}
	if patch.Description != nil {
		r.Description = patch.Description
	}
	return r, &github.Response{}, nil
}

func fork(name, parentOwner, parentName, description string) *github.Repository {
	return &github.Repository{
		Name:        github.String(name),
		Owner:       &github.User{Login: github.String("me")},
		Description: github.String(description),
		Parent: &github.Repository{
			Name:  github.String(parentName),
			Owner: &github.User{Login: github.String(parentOwner)},
		},
	}
}

func newTestEnforcer(f *fakeGitHub, dryRun bool) *Enforcer {
	return &Enforcer{
		search: f,
		repos:  f,
		cfg:    testForksConfig(),
		dryRun: dryRun,
		logger: logging.GetLogger("forks.enforce"),
	}
}

func TestEnforceRenamesOutOfPolicyFork(t *testing.T) {
	f := &fakeGitHub{repos: map[string]*github.Repository{
		"myfork": fork("myfork", "upstream", "project", "[DEV-FORK] something"),
	}}

	results, err := newTestEnforcer(f, false).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Err)
	assert.True(t, r.Renamed)
	assert.Equal(t, "upstream--project--dev-fork", r.NewName)
	assert.False(t, r.Retagged)

	require.Len(t, f.edits, 1)
	assert.Equal(t, "upstream--project--dev-fork", f.edits[0].patch.GetName())
}

func TestEnforceTagsDescription(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		wantDesc string
	}{
		{
			name:     "tag prepended to existing description",
			desc:     "my description",
			wantDesc: "[DEV-FORK] my description",
		},
		{
			name:     "empty description becomes just the tag",
			desc:     "",
			wantDesc: "[DEV-FORK]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGitHub{repos: map[string]*github.Repository{
				"upstream--project--dev-fork": fork("upstream--project--dev-fork", "upstream", "project", tt.desc),
			}}

			results, err := newTestEnforcer(f, false).Run(context.Background())
			require.NoError(t, err)
			require.Len(t, results, 1)

			r := results[0]
			require.NoError(t, r.Err)
			assert.False(t, r.Renamed)
			assert.True(t, r.Retagged)
			assert.Equal(t, tt.wantDesc, r.Description)
		})
	}
}

func TestEnforceCompliantForkUntouched(t *testing.T) {
	f := &fakeGitHub{repos: map[string]*github.Repository{
		"upstream--project--dev-fork": fork("upstream--project--dev-fork", "upstream", "project", "[DEV-FORK] fine"),
	}}

	results, err := newTestEnforcer(f, false).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Err)
	assert.False(t, r.Renamed)
	assert.False(t, r.Retagged)
	assert.Empty(t, f.edits)
}

func TestEnforceDryRunMakesNoEdits(t *testing.T) {
	f := &fakeGitHub{repos: map[string]*github.Repository{
		"myfork": fork("myfork", "upstream", "project", "no tag here"),
	}}

	results, err := newTestEnforcer(f, true).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	require.NoError(t, r.Err)
	assert.True(t, r.Renamed)
	assert.True(t, r.Retagged)
	assert.Empty(t, f.edits)
}

func TestEnforceMissingParentIsReported(t *testing.T) {
	f := &fakeGitHub{repos: map[string]*github.Repository{
		"orphan": {
			Name:  github.String("orphan"),
			Owner: &github.User{Login: github.String("me")},
		},
	}}

	results, err := newTestEnforcer(f, false).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Empty(t, f.edits)
}
