// Package mirror keeps bare mirrors of remote repositories on local disk.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/vino9org/git-indexer/internal/contract"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Actions reported per repository.
const (
	ActionClone = "clone"
	ActionFetch = "fetch"
	ActionSkip  = "skip"
)

// ErrNotMirror is reported for a destination that exists but is not a bare repository.
var ErrNotMirror = errors.New("destination exists and is not a mirror")

// Options configures a Mirrorer.
type Options struct {
	Dir       string
	DryRun    bool
	Overwrite bool
	Workers   int
}

// Result is the outcome for one repository.
type Result struct {
	CloneURL string
	Dest     string
	Action   string
	Err      error
}

// Mirrorer clones new repositories with --mirror and fetches existing ones.
type Mirrorer struct {
	git  contract.GitClient
	log  *zap.Logger
	opts Options
}

// New creates a Mirrorer. Workers below one means one.
func New(git contract.GitClient, log *zap.Logger, opts Options) *Mirrorer {
	if log == nil {
		log = zap.NewNop()
	}
	opts.Workers = max(opts.Workers, 1)
	return &Mirrorer{git: git, log: log, opts: opts}
}

// MirrorAll mirrors every URL with at most Workers running at once. Failures
// of single repositories are reported in their Result; the returned error is
// only set when ctx is cancelled.
func (m *Mirrorer) MirrorAll(ctx context.Context, cloneURLs []string) ([]Result, error) {
	results := make([]Result, len(cloneURLs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)

	for i, cloneURL := range cloneURLs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{CloneURL: cloneURL, Action: ActionSkip, Err: err}
				return err
			}
			results[i] = m.mirror(gctx, cloneURL)
			return nil
		})
	}
	return results, g.Wait()
}

func (m *Mirrorer) mirror(ctx context.Context, cloneURL string) Result {
	res := Result{CloneURL: cloneURL}
	dest, err := DestPath(m.opts.Dir, cloneURL)
	if err != nil {
		res.Action, res.Err = ActionSkip, err
		return res
	}
	res.Dest = dest
	log := m.log.With(zap.String("repo", contract.DisplayURL(cloneURL, 60)), zap.String("dest", dest))

	switch {
	case isMirror(dest):
		res.Action = ActionFetch
		if !m.opts.DryRun {
			res.Err = m.git.FetchMirror(ctx, dest)
		}
	case exists(dest) && !m.opts.Overwrite:
		res.Action, res.Err = ActionSkip, ErrNotMirror
	default:
		res.Action = ActionClone
		if !m.opts.DryRun {
			res.Err = m.clone(ctx, cloneURL, dest)
		}
	}

	switch {
	case res.Err != nil:
		log.Warn("mirror failed", zap.String("action", res.Action), zap.Error(res.Err))
	case m.opts.DryRun:
		log.Info("dry run", zap.String("action", res.Action))
	default:
		log.Info("mirrored", zap.String("action", res.Action))
	}
	return res
}

func (m *Mirrorer) clone(ctx context.Context, cloneURL, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return m.git.CloneMirror(ctx, cloneURL, dest)
}

// DestPath maps a clone URL to its mirror directory below dir, keeping the
// owner path: git@github.com:org/repo.git becomes dir/org/repo.git.
func DestPath(dir, cloneURL string) (string, error) {
	var repoPath string
	switch {
	case strings.HasPrefix(cloneURL, "git@"):
		_, repoPath, _ = strings.Cut(cloneURL, ":")
	case strings.Contains(cloneURL, "://"):
		u, err := url.Parse(cloneURL)
		if err != nil {
			return "", err
		}
		repoPath = u.Path
	}
	repoPath = strings.Trim(repoPath, "/")
	if repoPath == "" || strings.Contains(repoPath, "..") {
		return "", fmt.Errorf("cannot mirror %s: not a remote clone URL", cloneURL)
	}
	if !strings.HasSuffix(repoPath, ".git") {
		repoPath += ".git"
	}
	return filepath.Join(dir, filepath.FromSlash(repoPath)), nil
}

func isMirror(dir string) bool {
	st, err := os.Stat(filepath.Join(dir, "objects"))
	return err == nil && st.IsDir()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
