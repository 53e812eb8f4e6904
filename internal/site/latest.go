package site

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	ferrors "github.com/stigaview/stigaview/internal/foundation/errors"
	"github.com/stigaview/stigaview/internal/model"
)

// aliasLatest copies the rendered tree of s to products/<slug>/latest. An
// existing alias is a conflict with an earlier run and is never overwritten.
func (g *Generator) aliasLatest(s *model.Stig) error {
	productDir := filepath.Join(g.outputDir, "products", s.ProductName())
	src := filepath.Join(productDir, s.Slug())
	dst := filepath.Join(productDir, LatestDir)

	if _, err := os.Lstat(dst); err == nil {
		return ferrors.FileSystemError("latest alias already exists").
			WithContext("product", s.ProductName()).
			WithContext("version", s.ShortVersion()).
			WithContext("path", dst).
			Build()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("cannot inspect latest alias").
			WithCause(err).
			WithContext("path", dst).
			Build()
	}

	if err := CopyDir(src, dst); err != nil {
		return ferrors.FileSystemError("cannot copy latest version").
			WithCause(err).
			WithContext("product", s.ProductName()).
			WithContext("version", s.ShortVersion()).
			WithContext("path", dst).
			Build()
	}
	return nil
}

// CopyDir recursively copies the directory src to dst, preserving file
// permissions.
func CopyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
