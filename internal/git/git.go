// Package git provides Git operation wrappers for cloning and updating
// skill collections.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// allowedSchemes lists URL schemes accepted as git remotes.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// scpLikeRe matches scp-style remotes such as git@github.com:user/repo.git.
// The .git suffix is mandatory so that arbitrary host:path strings are not
// treated as remotes.
var scpLikeRe = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9._-]+:[^ ]+\.git$`)

// ValidateURL rejects strings that cannot safely be passed to git as a
// remote. Only whitelisted schemes and scp-like remotes are accepted, which
// also blocks argument injection through URLs starting with "-" and helper
// protocols like ext::.
func ValidateURL(s string) error {
	if s == "" {
		return errors.New("empty git URL")
	}
	if strings.HasPrefix(s, "-") {
		return errors.Newf("invalid git URL: %s", s)
	}
	if i := strings.Index(s, "://"); i != -1 {
		scheme := strings.ToLower(s[:i])
		if !allowedSchemes[scheme] {
			return errors.Newf("unsupported git URL scheme: %s", scheme)
		}
		return nil
	}
	if scpLikeRe.MatchString(s) {
		return nil
	}
	return errors.Newf("invalid git URL: %s", s)
}

// IsURL returns true if s looks like a git repository URL.
// It checks for:
//   - URLs containing "://" (e.g., https://, git://)
//   - URLs ending with ".git"
//   - SSH-style URLs starting with "git@"
func IsURL(s string) bool {
	if strings.Contains(s, "://") {
		return true
	}
	if strings.HasSuffix(s, ".git") {
		return true
	}
	if strings.HasPrefix(s, "git@") {
		return true
	}
	return false
}

// Clone clones a git repository from url to dest with the specified depth.
// Output is streamed to os.Stdout and os.Stderr. Stdin is connected to os.Stdin
// to support interactive authentication (e.g., SSH passphrase, credentials).
func Clone(url, dest string, depth int) error {
	depthArg := fmt.Sprintf("--depth=%d", depth)
	cmd := exec.Command("git", "clone", depthArg, url, dest)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// Pull performs a fast-forward-only pull in the specified collection directory.
// Output is streamed to os.Stdout and os.Stderr. Stdin is connected to os.Stdin
// to support interactive authentication (e.g., SSH passphrase, credentials).
func Pull(repoPath string) error {
	cmd := exec.Command("git", "-C", repoPath, "pull", "--ff-only")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "git pull failed")
	}
	return nil
}

// Head returns the abbreviated commit hash the collection is checked out at.
func Head(repoPath string) (string, error) {
	cmd := exec.Command("git", "-C", repoPath, "rev-parse", "--short", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(err, "git rev-parse failed")
	}
	return strings.TrimSpace(string(out)), nil
}

// ValidateRemote checks if repoPath is a valid git repository by verifying
// the existence of a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
