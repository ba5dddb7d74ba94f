// Package testable provides interfaces for mocking external dependencies
// such as go-git operations. Production code uses the Real* implementations;
// tests can inject mock implementations to avoid hitting real git repos.
package testable

import (
	"github.com/go-git/go-git/v5"
)

// GitOpener abstracts opening a git repository. Production code uses
// RealGitOpener; tests inject a mock to avoid filesystem dependencies.
type GitOpener interface {
	PlainOpen(path string) (GitRepository, error)
}

// GitRepository abstracts the subset of *git.Repository methods used by
// locus. This keeps the interface minimal and easy to mock.
type GitRepository interface {
	Remotes() ([]*git.Remote, error)
}

// RealGitOpener is the production implementation of GitOpener.
// It delegates to git.PlainOpen.
type RealGitOpener struct{}

// PlainOpen opens a git repository at path and returns a GitRepository.
func (RealGitOpener) PlainOpen(path string) (GitRepository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, err
	}
	return &RealGitRepository{repo: repo}, nil
}

// RealGitRepository wraps *git.Repository to satisfy GitRepository.
type RealGitRepository struct {
	repo *git.Repository
}

// Remotes returns a list of remotes in a repository.
func (r *RealGitRepository) Remotes() ([]*git.Remote, error) {
	return r.repo.Remotes()
}

// DefaultGitOpener is the production GitOpener used as default.
var DefaultGitOpener GitOpener = RealGitOpener{}

// Compile-time interface checks.
var _ GitOpener = RealGitOpener{}
var _ GitRepository = (*RealGitRepository)(nil)
