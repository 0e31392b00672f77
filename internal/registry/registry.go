// SPDX-License-Identifier: MPL-2.0

// Package registry installs books from git repositories into the local
// book path.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
)

// DefaultSource is the repository installed when none is given.
const DefaultSource = "dreadnode/robopages"

// Install clones the source repository under dest, or pulls it when a
// clone already exists there. It returns the path of the installed
// book directory.
func Install(ctx context.Context, source, dest string) (string, error) {
	if source == "" {
		source = DefaultSource
	}
	url, err := NormalizeSource(source)
	if err != nil {
		return "", err
	}
	repoPath := filepath.Join(dest, RepoName(url))

	if _, statErr := os.Stat(filepath.Join(repoPath, ".git")); statErr == nil {
		return repoPath, pull(ctx, repoPath)
	}

	log.Debug("cloning book repository", "url", url, "path", repoPath)
	_, err = git.PlainCloneContext(ctx, repoPath, false, &git.CloneOptions{
		URL:      url,
		Progress: os.Stdout,
		Depth:    1,
	})
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", url, err)
	}
	log.Info("book installed", "url", url, "path", repoPath)
	return repoPath, nil
}

// pull updates an existing clone; already-up-to-date is not an error.
func pull(ctx context.Context, repoPath string) error {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", repoPath, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree %s: %w", repoPath, err)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{Progress: os.Stdout})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		log.Info("book already up to date", "path", repoPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull %s: %w", repoPath, err)
	}
	log.Info("book updated", "path", repoPath)
	return nil
}

// NormalizeSource turns an install source into a clone URL. Accepted
// forms are a full http(s) or git URL, or a GitHub "owner/repo"
// shorthand.
func NormalizeSource(source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", errors.New("empty install source")
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, "git@") {
		return source, nil
	}

	parts := strings.Split(source, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid install source %q: want owner/repo or a full URL", source)
	}
	return "https://github.com/" + source, nil
}

// RepoName derives the install directory name from a clone URL.
func RepoName(url string) string {
	name := strings.TrimSuffix(url, "/")
	name = strings.TrimSuffix(name, ".git")
	if idx := strings.LastIndexAny(name, "/:"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
