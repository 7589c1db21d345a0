package zobj

import (
	"bytes"
	"encoding/hex"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Store is a git-style object store on top of a FileSystem. Objects are
// compressed with the configured codec; the zlib default keeps the on-disk
// layout compatible with git's loose objects.
type Store struct {
	fs     FileSystem
	config *Config
	stats  Stats
}

// NewStore creates an object store over the given filesystem
func NewStore(fsys FileSystem, config *Config) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Algorithm == "" {
		config.Algorithm = AlgorithmZlib
	}
	if config.Dir == "" {
		config.Dir = ".git"
	}
	if err := validateLevel(config.Algorithm, config.Level); err != nil {
		return nil, err
	}

	return &Store{
		fs:     fsys,
		config: config,
	}, nil
}

// Init creates the repository layout: the repository directory, its objects
// and refs subdirectories, and a HEAD pointing at refs/heads/main.
func (s *Store) Init() error {
	dirs := []string{
		s.config.Dir,
		filepath.Join(s.config.Dir, "objects"),
		filepath.Join(s.config.Dir, "refs"),
	}
	for _, dir := range dirs {
		if err := s.fs.Mkdir(dir, 0o755); err != nil {
			return errors.Wrapf(err, "init %s", dir)
		}
	}
	return s.writeFile(filepath.Join(s.config.Dir, "HEAD"), []byte("ref: refs/heads/main\n"))
}

// ReadObject reads and parses the object with the given hex id
func (s *Store) ReadObject(hash string) (*Object, error) {
	if len(hash) < 2 {
		return nil, errors.Wrap(ErrInvalidHash, "hash too short")
	}

	compressed, err := s.readFile(s.objectPath(hash))
	if err != nil {
		return nil, errors.Wrapf(err, "read object %s", hash)
	}
	raw, err := DecompressBytes(compressed, s.config.Algorithm)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress object %s", hash)
	}

	atomic.AddInt64(&s.stats.ObjectsRead, 1)
	atomic.AddInt64(&s.stats.BytesDecompressed, int64(len(raw)))

	return ParseObject(raw)
}

// WriteBlob stores content as a blob object and returns its hex id
func (s *Store) WriteBlob(content []byte) (string, error) {
	hash := HashObject(TypeBlob, content)
	if err := s.writeObject(hash, frameObject(TypeBlob, content)); err != nil {
		return "", err
	}
	return hash, nil
}

// WriteTree recursively stores the directory dir as tree and blob objects
// and returns the root tree's hex id. The repository directory itself is
// skipped. File entries use mode 100644, subtrees 40000, sorted by name.
func (s *Store) WriteTree(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	dirEntries, err := s.fs.ReadDir(dir)
	if err != nil {
		return "", errors.Wrapf(err, "read dir %s", dir)
	}

	type treeEntry struct {
		mode string
		name string
		id   []byte
	}
	var tree []treeEntry

	skip := filepath.Base(s.config.Dir)
	for _, entry := range dirEntries {
		name := entry.Name()
		if name == skip {
			continue
		}
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			sub, err := s.WriteTree(full)
			if err != nil {
				return "", err
			}
			id, err := hex.DecodeString(sub)
			if err != nil {
				return "", errors.Wrapf(ErrInvalidHash, "subtree %s", sub)
			}
			tree = append(tree, treeEntry{mode: "40000", name: name, id: id})
			continue
		}

		content, err := s.readFile(full)
		if err != nil {
			return "", errors.Wrapf(err, "read %s", full)
		}
		hash, err := s.WriteBlob(content)
		if err != nil {
			return "", err
		}
		id, err := hex.DecodeString(hash)
		if err != nil {
			return "", errors.Wrapf(ErrInvalidHash, "blob %s", hash)
		}
		tree = append(tree, treeEntry{mode: "100644", name: name, id: id})
	}

	sort.Slice(tree, func(i, j int) bool { return tree[i].name < tree[j].name })

	var payload bytes.Buffer
	for _, te := range tree {
		payload.WriteString(te.mode)
		payload.WriteByte(' ')
		payload.WriteString(te.name)
		payload.WriteByte(0)
		payload.Write(te.id)
	}

	hash := HashObject(TypeTree, payload.Bytes())
	if err := s.writeObject(hash, frameObject(TypeTree, payload.Bytes())); err != nil {
		return "", err
	}
	return hash, nil
}

// LsTree returns the rendered content of a tree object: its entry names,
// one per line.
func (s *Store) LsTree(hash string) (string, error) {
	obj, err := s.ReadObject(hash)
	if err != nil {
		return "", err
	}
	if obj.Type != TypeTree {
		return "", errors.Wrapf(ErrObjectType, "%s is a %s", hash, obj.Type)
	}
	return obj.Content, nil
}

func (s *Store) objectPath(hash string) string {
	return filepath.Join(s.config.Dir, "objects", hash[:2], hash[2:])
}

func (s *Store) writeObject(hash string, raw []byte) error {
	compressed, err := CompressBytes(raw, s.config.Algorithm, s.config.Level)
	if err != nil {
		return errors.Wrapf(err, "compress object %s", hash)
	}

	dir := filepath.Join(s.config.Dir, "objects", hash[:2])
	if err := s.fs.Mkdir(dir, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
		return errors.Wrapf(err, "mkdir %s", dir)
	}
	if err := s.writeFile(s.objectPath(hash), compressed); err != nil {
		return errors.Wrapf(err, "write object %s", hash)
	}

	atomic.AddInt64(&s.stats.ObjectsWritten, 1)
	atomic.AddInt64(&s.stats.BytesCompressed, int64(len(compressed)))
	return nil
}

func (s *Store) readFile(name string) ([]byte, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Store) writeFile(name string, data []byte) error {
	f, err := s.fs.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
