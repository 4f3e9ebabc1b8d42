package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores photos on the local filesystem, served under /uploads
type Local struct {
	basePath string
}

func NewLocal(basePath string) *Local {
	return &Local{basePath: basePath}
}

func (l *Local) Upload(ctx context.Context, file io.Reader, path string) (string, string, error) {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, l.PublicURL(path), nil
}

func (l *Local) Delete(ctx context.Context, path string) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	l.pruneEmptyDirs(filepath.Dir(fullPath))
	return nil
}

func (l *Local) PublicURL(path string) string {
	return "/uploads/" + path
}

func (l *Local) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(l.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// pruneEmptyDirs removes now-empty directories up to basePath
func (l *Local) pruneEmptyDirs(dir string) {
	rel, err := filepath.Rel(l.basePath, dir)
	if err != nil || rel == "." {
		return
	}
	if err := os.Remove(dir); err == nil {
		l.pruneEmptyDirs(filepath.Dir(dir))
	}
}
