// Package deploy holds file system operations of the deployment toolkit.
// Each operation reports its progress through the trace log.
package deploy

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	coreerrors "deploytrace/internal/core/errors"
	"deploytrace/internal/tracelog"
)

// Copier copies files and directory trees.
type Copier struct {
	log *tracelog.Dispatcher

	// ContinueOnError logs failures without returning them.
	ContinueOnError bool
}

// NewCopier creates a Copier that logs through d.
func NewCopier(d *tracelog.Dispatcher, continueOnError bool) *Copier {
	return &Copier{log: d, ContinueOnError: continueOnError}
}

// CopyFile copies src to dst. When dst is an existing directory the file
// keeps its name inside it. Existing files are overwritten.
func (c *Copier) CopyFile(src, dst string) error {
	source := tracelog.WithCallerSource()

	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	c.log.Log([]string{"Copy file [" + src + "] to destination [" + dst + "]."}, source)

	if err := copyFile(src, dst); err != nil {
		c.log.Log([]string{"Failed to copy file [" + src + "] to destination [" + dst + "]. " + err.Error()},
			source, tracelog.WithSeverity(tracelog.SeverityError))
		return c.fail(err)
	}

	c.log.Log([]string{"File copy completed successfully."}, source)
	return nil
}

// CopyDir copies the tree rooted at src into dst, creating dst as needed.
func (c *Copier) CopyDir(src, dst string) error {
	source := tracelog.WithCallerSource()

	c.log.Log([]string{"Copy directory [" + src + "] to destination [" + dst + "]."}, source)

	info, err := os.Stat(src)
	if err == nil && !info.IsDir() {
		err = coreerrors.New(coreerrors.CodeInvalidParam, "source is not a directory").WithPath(src)
	}
	if err != nil {
		c.log.Log([]string{"Failed to copy directory [" + src + "]. " + err.Error()},
			source, tracelog.WithSeverity(tracelog.SeverityError))
		return c.fail(err)
	}

	var failed error
	walkErr := filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if err := copyFile(path, target); err != nil {
			c.log.Log([]string{"Failed to copy file [" + path + "] to destination [" + target + "]. " + err.Error()},
				source, tracelog.WithSeverity(tracelog.SeverityError))
			if !c.ContinueOnError {
				return err
			}
			failed = err
			return nil
		}

		c.log.Log([]string{"Copied [" + rel + "]."}, source, tracelog.AsDebug())
		return nil
	})

	if walkErr != nil {
		c.log.Log([]string{"Failed to copy directory [" + src + "] to destination [" + dst + "]. " + walkErr.Error()},
			source, tracelog.WithSeverity(tracelog.SeverityError))
		return c.fail(walkErr)
	}
	if failed != nil {
		c.log.Log([]string{"Directory copy completed with errors."}, source, tracelog.WithSeverity(tracelog.SeverityWarning))
		return nil
	}

	c.log.Log([]string{"Directory copy completed successfully."}, source)
	return nil
}

func (c *Copier) fail(err error) error {
	if c.ContinueOnError {
		return nil
	}
	return coreerrors.Wrap(err, coreerrors.CodeCopyFailed, "copy failed")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return coreerrors.New(coreerrors.CodeInvalidParam, "source is a directory").WithPath(src)
	}

	if existing, err := os.Stat(dst); err == nil && os.SameFile(info, existing) {
		return coreerrors.New(coreerrors.CodeInvalidParam, "cannot overwrite the item with itself").WithPath(dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
