// Package testutil provides test doubles, most importantly an in-memory
// implementation of types.FS with full symlink support.
package testutil

import (
	"io/fs"
	"os"
	gopath "path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements types.FS with in-memory storage. Symlinks are
// stored as nodes holding their literal target text and are resolved
// relative to the link's directory, matching OS semantics.
type MemoryFS struct {
	mu    sync.RWMutex
	nodes map[string]*fileNode
}

// fileNode represents a file, directory or symlink in memory
type fileNode struct {
	mode     os.FileMode
	modTime  time.Time
	content  []byte
	isDir    bool
	linkDest string
}

// NewMemoryFS creates a new in-memory filesystem with an empty root
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*fileNode{
			".": {mode: 0755 | os.ModeDir, modTime: time.Now(), isDir: true},
		},
	}
}

// normalize converts a path to the internal slash-separated, rootless
// form used as map key
func normalize(p string) string {
	p = gopath.Clean(filepath.ToSlash(p))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "."
	}
	return p
}

// resolve follows symlinks in every path component; the final component
// is only followed when followLast is set. Returns the resolved key.
func (m *MemoryFS) resolve(p string, followLast bool) (string, error) {
	parts := strings.Split(normalize(p), "/")
	cur := "."
	for i, part := range parts {
		cur = gopath.Join(cur, part)
		for depth := 0; ; depth++ {
			node := m.nodes[cur]
			if node == nil || node.linkDest == "" {
				break
			}
			if i == len(parts)-1 && !followLast {
				break
			}
			if depth > 40 {
				return "", &fs.PathError{Op: "stat", Path: p, Err: fs.ErrInvalid}
			}
			dest := filepath.ToSlash(node.linkDest)
			if !gopath.IsAbs(dest) {
				dest = gopath.Join(gopath.Dir(cur), dest)
			}
			cur = normalize(dest)
		}
	}
	return cur, nil
}

func (m *MemoryFS) lookup(p string, followLast bool) (*fileNode, string, error) {
	key, err := m.resolve(p, followLast)
	if err != nil {
		return nil, "", err
	}
	node := m.nodes[key]
	if node == nil {
		return nil, key, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	return node, key, nil
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, key, err := m.lookup(name, true)
	if err != nil {
		return nil, err
	}
	return node.info(gopath.Base(key)), nil
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, key, err := m.lookup(name, false)
	if err != nil {
		return nil, err
	}
	return node.info(gopath.Base(key)), nil
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, _, err := m.lookup(name, true)
	if err != nil {
		return nil, err
	}
	if node.isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	out := make([]byte, len(node.content))
	copy(out, node.content)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.resolve(name, true)
	if err != nil {
		return err
	}
	parent := m.nodes[gopath.Dir(key)]
	if parent == nil || !parent.isDir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}
	if node := m.nodes[key]; node != nil && node.isDir {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrInvalid}
	}
	content := make([]byte, len(data))
	copy(content, data)
	m.nodes[key] = &fileNode{mode: perm, modTime: time.Now(), content: content}
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := strings.Split(normalize(path), "/")
	cur := "."
	for _, part := range parts {
		cur = gopath.Join(cur, part)
		for depth := 0; ; depth++ {
			node := m.nodes[cur]
			if node == nil || node.linkDest == "" {
				break
			}
			if depth > 40 {
				return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrInvalid}
			}
			dest := filepath.ToSlash(node.linkDest)
			if !gopath.IsAbs(dest) {
				dest = gopath.Join(gopath.Dir(cur), dest)
			}
			cur = normalize(dest)
		}
		if node := m.nodes[cur]; node != nil {
			if !node.isDir {
				return &fs.PathError{Op: "mkdir", Path: path, Err: fs.ErrExist}
			}
			continue
		}
		m.nodes[cur] = &fileNode{mode: perm | os.ModeDir, modTime: time.Now(), isDir: true}
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, key, err := m.lookup(name, true)
	if err != nil {
		return nil, err
	}
	if !node.isDir {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	var entries []fs.DirEntry
	for k, n := range m.nodes {
		if k != key && gopath.Dir(k) == key {
			entries = append(entries, dirEntry{name: gopath.Base(k), node: n})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.resolve(newname, false)
	if err != nil {
		return err
	}
	if m.nodes[key] != nil {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}
	parent := m.nodes[gopath.Dir(key)]
	if parent == nil || !parent.isDir {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrNotExist}
	}
	m.nodes[key] = &fileNode{mode: 0777 | os.ModeSymlink, modTime: time.Now(), linkDest: oldname}
	return nil
}

func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	node, _, err := m.lookup(name, false)
	if err != nil {
		return "", err
	}
	if node.linkDest == "" {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return node.linkDest, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, err := m.resolve(name, false)
	if err != nil {
		return err
	}
	node := m.nodes[key]
	if node == nil {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	if node.isDir {
		for k := range m.nodes {
			if gopath.Dir(k) == key {
				return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrInvalid}
			}
		}
	}
	delete(m.nodes, key)
	return nil
}

func (m *MemoryFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldKey, err := m.resolve(oldpath, false)
	if err != nil {
		return err
	}
	newKey, err := m.resolve(newpath, false)
	if err != nil {
		return err
	}
	node := m.nodes[oldKey]
	if node == nil {
		return &fs.PathError{Op: "rename", Path: oldpath, Err: fs.ErrNotExist}
	}
	if parent := m.nodes[gopath.Dir(newKey)]; parent == nil || !parent.isDir {
		return &fs.PathError{Op: "rename", Path: newpath, Err: fs.ErrNotExist}
	}
	if node.isDir {
		prefix := oldKey + "/"
		moved := make(map[string]*fileNode)
		for k, n := range m.nodes {
			if strings.HasPrefix(k, prefix) {
				moved[newKey+"/"+strings.TrimPrefix(k, prefix)] = n
				delete(m.nodes, k)
			}
		}
		for k, n := range moved {
			m.nodes[k] = n
		}
	}
	delete(m.nodes, oldKey)
	m.nodes[newKey] = node
	return nil
}

// Exists reports whether a node is present at the literal path, without
// following a final symlink
func (m *MemoryFS) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, _, err := m.lookup(name, false)
	return err == nil
}

func (n *fileNode) info(name string) fs.FileInfo {
	return memFileInfo{name: name, node: n}
}

type memFileInfo struct {
	name string
	node *fileNode
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return int64(len(i.node.content)) }
func (i memFileInfo) Mode() fs.FileMode  { return i.node.mode }
func (i memFileInfo) ModTime() time.Time { return i.node.modTime }
func (i memFileInfo) IsDir() bool        { return i.node.isDir }
func (i memFileInfo) Sys() interface{}   { return nil }

type dirEntry struct {
	name string
	node *fileNode
}

func (d dirEntry) Name() string               { return d.name }
func (d dirEntry) IsDir() bool                { return d.node.isDir }
func (d dirEntry) Type() fs.FileMode          { return d.node.mode.Type() }
func (d dirEntry) Info() (fs.FileInfo, error) { return d.node.info(d.name), nil }
