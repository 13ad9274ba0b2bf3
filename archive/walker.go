// Package archive reads and writes zip containers spreadsheet files are made
// of.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file in the archive whose name starts with
// prefix. Archives with absolute entry names or path traversal components
// are rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// isSafePath returns false for absolute names and those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

// Names returns names of files in the archive whose names start with
// prefix, unsafe archives are rejected the same way Walk does.
func Names(archive, prefix string) ([]string, error) {
	var names []string
	err := Walk(archive, prefix, func(_ string, file *zip.File) error {
		names = append(names, file.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Write stores archive produced in memory at path. Entries are copied
// without data descriptors, which older spreadsheet programs do not
// handle.
func Write(to string, data []byte) error {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("unable to read archive: %w", err)
	}

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	w := fixzip.NewWriter(out)
	for _, file := range r.File {
		// unset data descriptor flag
		file.Flags &= ^fixzip.FlagDataDescriptor
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to write target file (%s): %w", to, err)
	}
	return out.Close()
}
