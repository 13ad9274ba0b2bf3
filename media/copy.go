package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Folders media live in, same in book and export folders.
const (
	ImagesDir     = "images"
	AudioDir      = "audio"
	VideoDir      = "video"
	ActivitiesDir = "activities"
)

// WidgetFolder returns first folder below activities of widget root file,
// the whole folder belongs to the widget. Empty when widget is elsewhere.
func WidgetFolder(src string) string {
	rest, ok := strings.CutPrefix(path.Clean(filepath.ToSlash(src)), ActivitiesDir+"/")
	if !ok {
		return ""
	}
	top, _, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}
	return top
}

// CopyFile copies single file creating destination directory as needed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingMediaFile, src)
		}
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create directory for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("unable to copy %s: %w", src, err)
	}
	return out.Close()
}

// CopyDir copies directory tree, existing files are replaced.
func CopyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		return CopyFile(path, target)
	})
}

// SameFile reports whether both names point to the same existing file.
func SameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// Copier runs file and directory copies in parallel with bounded number of
// workers. Every destination is written at most once. Failed copies do not
// stop others, only cancellation does.
type Copier struct {
	g    *errgroup.Group
	ctx  context.Context
	log  *zap.Logger
	mu   sync.Mutex
	seen map[string]bool
	errs error
}

// NewCopier creates copier, workers below 1 mean one worker.
func NewCopier(ctx context.Context, workers int, log *zap.Logger) *Copier {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	return &Copier{
		g:    g,
		ctx:  gctx,
		log:  log.Named("copy"),
		seen: make(map[string]bool),
	}
}

func (c *Copier) claim(dst string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	dst = filepath.Clean(dst)
	if c.seen[dst] {
		return false
	}
	c.seen[dst] = true
	return true
}

// File schedules copy of single file.
func (c *Copier) File(src, dst string) {
	if !c.claim(dst) || SameFile(src, dst) {
		return
	}
	c.g.Go(func() error {
		if err := c.ctx.Err(); err != nil {
			return err
		}
		c.log.Debug("Copying file", zap.String("from", src), zap.String("to", dst))
		c.fail(CopyFile(src, dst))
		return nil
	})
}

// Dir schedules copy of directory tree.
func (c *Copier) Dir(src, dst string) {
	if !c.claim(dst) || SameFile(src, dst) {
		return
	}
	c.g.Go(func() error {
		c.log.Debug("Copying directory", zap.String("from", src), zap.String("to", dst))
		err := CopyDir(c.ctx, src, dst)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err != nil {
			err = fmt.Errorf("unable to copy directory %s: %w", src, err)
		}
		c.fail(err)
		return nil
	})
}

func (c *Copier) fail(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = multierr.Append(c.errs, err)
}

// Wait blocks until all scheduled copies are done. Cancellation is returned
// as is, otherwise result combines all copy failures, use multierr.Errors to
// get them.
func (c *Copier) Wait() error {
	if err := c.g.Wait(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}
