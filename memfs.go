package zobj

import (
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// normalizePath normalizes a path for consistent storage/lookup
func normalizePath(name string) string {
	name = filepath.Clean(name)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		name = "."
	}
	return name
}

// memFS is a simple in-memory filesystem for testing
type memFS struct {
	files map[string]*memEntry
	dirs  map[string]bool
	mu    sync.RWMutex
}

// NewMemFS creates a new in-memory filesystem
func NewMemFS() FileSystem {
	return &memFS{
		files: make(map[string]*memEntry),
		dirs:  make(map[string]bool),
	}
}

type memEntry struct {
	data    []byte
	mode    fs.FileMode
	modTime time.Time
}

type memFile struct {
	name   string
	ent    *memEntry
	mfs    *memFS
	pos    int
	closed bool
	mu     sync.Mutex
}

func (mfs *memFS) Open(name string) (File, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = normalizePath(name)
	ent, exists := mfs.files[name]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return &memFile{name: name, ent: ent, mfs: mfs}, nil
}

func (mfs *memFS) Create(name string) (File, error) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = normalizePath(name)
	ent := &memEntry{mode: 0o666, modTime: time.Now()}
	mfs.files[name] = ent
	return &memFile{name: name, ent: ent, mfs: mfs}, nil
}

func (mfs *memFS) Mkdir(name string, perm fs.FileMode) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = normalizePath(name)
	if mfs.dirs[name] {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	mfs.dirs[name] = true
	return nil
}

func (mfs *memFS) Stat(name string) (fs.FileInfo, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = normalizePath(name)
	if ent, exists := mfs.files[name]; exists {
		return &memFileInfo{
			name:    filepath.Base(name),
			size:    int64(len(ent.data)),
			mode:    ent.mode,
			modTime: ent.modTime,
		}, nil
	}
	if name == "." || mfs.dirs[name] || mfs.hasChildren(name) {
		return &memFileInfo{name: filepath.Base(name), mode: fs.ModeDir | 0o755}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (mfs *memFS) ReadDir(name string) ([]fs.DirEntry, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	name = normalizePath(name)
	var entries []fs.DirEntry
	seen := make(map[string]bool)

	add := func(info fs.FileInfo) {
		if !seen[info.Name()] {
			seen[info.Name()] = true
			entries = append(entries, fs.FileInfoToDirEntry(info))
		}
	}

	for path, ent := range mfs.files {
		switch {
		case filepath.Dir(path) == name:
			add(&memFileInfo{
				name:    filepath.Base(path),
				size:    int64(len(ent.data)),
				mode:    ent.mode,
				modTime: ent.modTime,
			})
		case inDir(path, name):
			// deeper file; surface its topmost directory under name
			add(&memFileInfo{name: childDir(path, name), mode: fs.ModeDir | 0o755})
		}
	}
	for dir := range mfs.dirs {
		if filepath.Dir(dir) == name {
			add(&memFileInfo{name: filepath.Base(dir), mode: fs.ModeDir | 0o755})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

func (mfs *memFS) hasChildren(name string) bool {
	for path := range mfs.files {
		if inDir(path, name) {
			return true
		}
	}
	return false
}

// inDir reports whether path lives somewhere below dir
func inDir(path, dir string) bool {
	if dir == "." {
		return path != "."
	}
	return strings.HasPrefix(path, dir+"/")
}

// childDir returns the first path element of path below dir
func childDir(path, dir string) string {
	rest := path
	if dir != "." {
		rest = strings.TrimPrefix(path, dir+"/")
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

func (mf *memFile) Read(p []byte) (n int, err error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if mf.closed {
		return 0, fs.ErrClosed
	}

	mf.mfs.mu.RLock()
	defer mf.mfs.mu.RUnlock()

	if mf.pos >= len(mf.ent.data) {
		return 0, io.EOF
	}
	n = copy(p, mf.ent.data[mf.pos:])
	mf.pos += n
	return n, nil
}

func (mf *memFile) Write(p []byte) (n int, err error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	if mf.closed {
		return 0, fs.ErrClosed
	}

	mf.mfs.mu.Lock()
	defer mf.mfs.mu.Unlock()

	mf.ent.data = append(mf.ent.data, p...)
	mf.ent.modTime = time.Now()
	return len(p), nil
}

func (mf *memFile) Close() error {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	mf.closed = true
	return nil
}

func (mf *memFile) Stat() (fs.FileInfo, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	return &memFileInfo{
		name:    filepath.Base(mf.name),
		size:    int64(len(mf.ent.data)),
		mode:    mf.ent.mode,
		modTime: mf.ent.modTime,
	}, nil
}

type memFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (fi *memFileInfo) Name() string       { return fi.name }
func (fi *memFileInfo) Size() int64        { return fi.size }
func (fi *memFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *memFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *memFileInfo) Sys() interface{}   { return nil }
