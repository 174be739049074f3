// Package store implements the JSON-file record store backing every
// collection in the application. Each named collection ("users", "posts",
// "comments", "likes") lives in a single <name>.json file under the
// configured data directory and is read and written as a whole.
//
// Writers follow a load -> mutate-in-memory -> save cycle. The store itself
// provides no transactions; callers serialize that cycle with the
// per-collection locks exposed by Lock.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/user/madang-go/apperror"
)

// Store persists named JSON collections under a single data directory.
// The zero value is not usable; construct with New.
type Store struct {
	dir string
	// strict makes Load surface parse failures instead of degrading to an
	// empty collection. The permissive default mirrors the store's original
	// contract; operators opt into fail-loud via config.
	strict bool

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, strict bool) (*Store, error) {
	if dir == "" {
		return nil, apperror.NewConfigError("store: data directory must not be empty", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperror.NewStoreError(fmt.Sprintf("store: failed to create data directory %q", dir), err)
	}
	return &Store{
		dir:    dir,
		strict: strict,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named collection into out, which must be a pointer to a
// slice. A missing backing file is created empty and yields an empty slice.
// A file that exists but fails to parse is logged and treated as empty,
// unless the store is strict, in which case the parse error is returned.
func (s *Store) Load(name string, out any) error {
	path := s.path(name)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First access: materialize an empty collection so later saves and
		// reads operate on an existing file.
		if err := s.writeAtomic(path, []byte("[]")); err != nil {
			return apperror.NewStoreError(fmt.Sprintf("store: failed to initialize collection %q", name), err)
		}
		data = []byte("[]")
	} else if err != nil {
		return apperror.NewStoreError(fmt.Sprintf("store: failed to read collection %q", name), err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		if s.strict {
			return apperror.NewStoreError(fmt.Sprintf("store: collection %q is corrupt", name), err)
		}
		log.Printf("ERROR store: collection %q is corrupt, treating as empty: %v", name, err)
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

// Save serializes the full collection and replaces the backing file
// atomically: the JSON is written to a temporary file in the data directory
// and then renamed over the target path. A reader never observes a partially
// written file, and a crash mid-write leaves the prior version intact.
func (s *Store) Save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return apperror.NewStoreError(fmt.Sprintf("store: failed to encode collection %q", name), err)
	}
	if err := s.writeAtomic(s.path(name), data); err != nil {
		return apperror.NewStoreError(fmt.Sprintf("store: failed to write collection %q", name), err)
	}
	return nil
}

func (s *Store) writeAtomic(path string, data []byte) error {
	// The temp file must live on the same filesystem as the target for the
	// rename to be atomic, so it goes in the data directory itself.
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Lock acquires the named per-collection mutexes and returns a function that
// releases them. Locks are always taken in sorted name order so that
// multi-collection operations (like/unlike touch both "likes" and "posts")
// cannot deadlock against each other.
//
// Every load-mutate-save cycle must run under the locks of the collections it
// writes; without this the second of two concurrent saves silently overwrites
// the first (lost update), and max+1 ID allocation can hand out duplicates.
func (s *Store) Lock(names ...string) func() {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	acquired := make([]*sync.Mutex, 0, len(sorted))
	for _, name := range sorted {
		mu := s.lockFor(name)
		mu.Lock()
		acquired = append(acquired, mu)
	}
	return func() {
		// Release in reverse acquisition order.
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[name]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[name] = mu
	}
	return mu
}
