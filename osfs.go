package zobj

import (
	"io/fs"
	"os"
)

// osFS passes filesystem operations through to the operating system.
// Relative paths resolve against the process working directory.
type osFS struct{}

// NewOSFS returns a FileSystem backed by the operating system
func NewOSFS() FileSystem {
	return osFS{}
}

func (osFS) Open(name string) (File, error) {
	return os.Open(name)
}

func (osFS) Create(name string) (File, error) {
	return os.Create(name)
}

func (osFS) Mkdir(name string, perm fs.FileMode) error {
	return os.Mkdir(name, perm)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}
