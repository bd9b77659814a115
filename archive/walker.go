// Package archive builds Walk abstraction on top of "archive/zip" and reads
// individual entries of already opened containers.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
)

// WalkFunc is called for each file in archive visited by Walk. The archive
// argument is the path passed to Walk. If an error is returned, processing
// stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every regular file in archive which name starts with
// prefix. Archives with absolute or traversing entry names are rejected.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	return walkReader(&r.Reader, prefix, func(f *zip.File) error {
		return walkFn(archive, f)
	})
}

func walkReader(zr *zip.Reader, prefix string, fn func(*zip.File) error) error {
	for _, f := range zr.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns content of named entry, error wraps fs.ErrNotExist when
// there is no such entry. Limit guards against decompression bombs, zero
// means no limit.
func ReadFile(zr *zip.Reader, name string, limit int64) ([]byte, error) {
	if !isSafePath(name) {
		return nil, fmt.Errorf("zip entry %q: unsafe path", name)
	}
	for _, f := range zr.File {
		if f.Name != name || f.FileInfo().IsDir() {
			continue
		}
		if limit > 0 && f.UncompressedSize64 > uint64(limit) {
			return nil, fmt.Errorf("zip entry %q: too large (%d bytes)", name, f.UncompressedSize64)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zip entry %q: %w", name, err)
		}
		defer rc.Close()

		var src io.Reader = rc
		if limit > 0 {
			src = io.LimitReader(rc, limit+1)
		}
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, fmt.Errorf("zip entry %q: %w", name, err)
		}
		if limit > 0 && int64(len(data)) > limit {
			return nil, fmt.Errorf("zip entry %q: too large", name)
		}
		return data, nil
	}
	return nil, fmt.Errorf("zip entry %q: %w", name, fs.ErrNotExist)
}

// isSafePath returns false for absolute paths and those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
