// Package store keeps processed session results in memory, keyed by a
// fingerprint of the source recording.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mpapenbr/ibt-analyzer-go/log"
	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

// Fingerprint identifies a recording by path, size and modification
// time. Re-processing an unchanged file yields the same value, a
// changed file a different one.
func Fingerprint(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	hasher := sha256.New()
	hasher.Write([]byte(path +
		":" + strconv.FormatInt(fi.Size(), 10) +
		":" + strconv.FormatInt(fi.ModTime().Unix(), 10)))
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Store is safe for concurrent use. Results are immutable once stored.
type Store struct {
	mu     sync.RWMutex
	byFp   map[string]*model.SessionResult
	serial []string // fingerprints in insertion order
	l      *log.Logger
}

func New() *Store {
	return &Store{
		byFp: make(map[string]*model.SessionResult),
		l:    log.Default().Named("store"),
	}
}

// Put stores the result under its fingerprint. The first writer wins:
// inserted reports false when the fingerprint is already present and
// the store is unchanged. Results without an ID get one assigned.
func (s *Store) Put(res *model.SessionResult) (inserted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byFp[res.Fingerprint]; ok {
		s.l.Debug("duplicate result ignored",
			log.String("fingerprint", res.Fingerprint),
			log.String("file", res.SourceFile))
		return false
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	s.byFp[res.Fingerprint] = res
	s.serial = append(s.serial, res.Fingerprint)
	return true
}

// Get returns the result stored under the fingerprint.
func (s *Store) Get(fingerprint string) (*model.SessionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.byFp[fingerprint]
	return res, ok
}

// Contains reports whether a result is stored under the fingerprint.
func (s *Store) Contains(fingerprint string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byFp[fingerprint]
	return ok
}

// All returns the stored results in insertion order.
func (s *Store) All() []*model.SessionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret := make([]*model.SessionResult, 0, len(s.serial))
	for _, fp := range s.serial {
		ret = append(ret, s.byFp[fp])
	}
	return ret
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.serial)
}
