package corpus

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	appcfg "github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/config"
	"github.com/smokvina/Razgovaraj-sa-svojim-dokumentom/internal/logfields"
)

// GitClient clones and updates corpus repositories inside a workspace directory.
type GitClient struct {
	workspaceDir string
}

// NewGitClient creates a git client rooted at the given workspace directory.
func NewGitClient(workspaceDir string) *GitClient {
	return &GitClient{workspaceDir: workspaceDir}
}

// EnsureWorkspace creates the workspace directory if missing.
func (c *GitClient) EnsureWorkspace() error {
	if err := os.MkdirAll(c.workspaceDir, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	return nil
}

// Sync clones the repository on first use and pulls on subsequent calls,
// returning the local checkout path.
func (c *GitClient) Sync(repo appcfg.Repository) (string, error) {
	repoPath := filepath.Join(c.workspaceDir, repo.Name)

	if _, err := os.Stat(filepath.Join(repoPath, ".git")); err == nil {
		return c.update(repo, repoPath)
	}
	return c.clone(repo, repoPath)
}

func (c *GitClient) clone(repo appcfg.Repository, repoPath string) (string, error) {
	slog.Debug("Cloning repository", logfields.Source(repo.Name), slog.String("url", repo.URL))
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("remove existing directory: %w", err)
	}

	opts := &git.CloneOptions{URL: repo.URL}
	if repo.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		opts.SingleBranch = true
	}
	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", err
	}
	opts.Auth = auth

	if _, err := git.PlainClone(repoPath, false, opts); err != nil {
		return "", fmt.Errorf("clone %s: %w", repo.Name, err)
	}
	return repoPath, nil
}

func (c *GitClient) update(repo appcfg.Repository, repoPath string) (string, error) {
	slog.Debug("Updating repository", logfields.Source(repo.Name), logfields.Path(repoPath))
	repository, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", repo.Name, err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree %s: %w", repo.Name, err)
	}

	auth, err := authMethod(repo.Auth)
	if err != nil {
		return "", err
	}
	pullOpts := &git.PullOptions{Auth: auth}
	if repo.Branch != "" {
		pullOpts.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
	}
	if err := worktree.Pull(pullOpts); err != nil && err != git.NoErrAlreadyUpToDate {
		return "", fmt.Errorf("pull %s: %w", repo.Name, err)
	}
	return repoPath, nil
}

// authMethod maps repository auth configuration onto a go-git transport method.
func authMethod(auth *appcfg.AuthConfig) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}
	switch auth.Type {
	case "token":
		// Forges accept tokens as basic-auth passwords with any username.
		return &githttp.BasicAuth{Username: "token", Password: auth.Token}, nil
	case "basic":
		return &githttp.BasicAuth{Username: auth.Username, Password: auth.Password}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", auth.Type)
	}
}
