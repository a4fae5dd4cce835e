package fetcher

import (
	"io"
	"os"
)

// FileSystem abstracts filesystem operations to improve testability.
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Create(path string) (io.WriteCloser, error)
	Remove(path string) error
}

// OSFileSystem implements FileSystem using the local OS.
type OSFileSystem struct{}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (OSFileSystem) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}
