// Package fsys is the engine's seam to the real filesystem. Paths are
// absolute; implementations never interpret them relative to a root.
package fsys

import (
	"io"
	"io/fs"
	"os"
)

// ReadFS covers everything the scanner and fingerprinter need.
type ReadFS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Open(name string) (io.ReadCloser, error)
}

// WriteFS covers everything the executor needs.
type WriteFS interface {
	Rename(oldpath, newpath string) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
}

// FileSystem combines read and write operations.
type FileSystem interface {
	ReadFS
	WriteFS
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// NewOSFileSystem returns the OS-backed filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (*OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (*OSFileSystem) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (*OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (*OSFileSystem) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

func (*OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (*OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (*OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}
