//nolint:errcheck // ok for this test code
package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/ibt-analyzer-go/pkg/model"
)

func sampleResult(fp string) *model.SessionResult {
	return &model.SessionResult{
		Fingerprint: fp,
		SourceFile:  fp + ".ibt",
		Identity:    model.SessionIdentity{Car: "porsche992cup", Track: "roadatlanta"},
	}
}

func TestStore_Put(t *testing.T) {
	tests := []struct {
		name         string
		fingerprint  string
		wantInserted bool
	}{
		{name: "new entry", fingerprint: "fp-2", wantInserted: true},
		{name: "duplicate", fingerprint: "fp-1", wantInserted: false},
	}
	s := New()
	s.Put(sampleResult("fp-1"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Put(sampleResult(tt.fingerprint))
			assert.Equal(t, got, tt.wantInserted)
		})
	}
	assert.Equal(t, s.Len(), 2)
}

func TestStore_PutAssignsID(t *testing.T) {
	s := New()
	res := sampleResult("fp-1")
	s.Put(res)
	assert.Assert(t, res.ID != "")
}

func TestStore_Get(t *testing.T) {
	s := New()
	want := sampleResult("fp-1")
	s.Put(want)

	got, ok := s.Get("fp-1")
	assert.Assert(t, ok)
	assert.Equal(t, got, want)

	_, ok = s.Get("unknown")
	assert.Assert(t, !ok)
	assert.Assert(t, !s.Contains("unknown"))
	assert.Assert(t, s.Contains("fp-1"))
}

func TestStore_AllInsertionOrder(t *testing.T) {
	s := New()
	s.Put(sampleResult("fp-1"))
	s.Put(sampleResult("fp-2"))
	s.Put(sampleResult("fp-3"))

	all := s.All()
	assert.Equal(t, len(all), 3)
	assert.Equal(t, all[0].Fingerprint, "fp-1")
	assert.Equal(t, all[1].Fingerprint, "fp-2")
	assert.Equal(t, all[2].Fingerprint, "fp-3")
}

// concurrent writers with the same fingerprint must insert exactly once
func TestStore_ConcurrentPutSameFingerprint(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	inserted := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted <- s.Put(sampleResult("fp-1"))
		}()
	}
	wg.Wait()
	close(inserted)

	count := 0
	for ok := range inserted {
		if ok {
			count++
		}
	}
	assert.Equal(t, count, 1)
	assert.Equal(t, s.Len(), 1)
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.ibt")
	assert.NilError(t, os.WriteFile(path, []byte("payload"), 0o600))

	first, err := Fingerprint(path)
	assert.NilError(t, err)
	second, err := Fingerprint(path)
	assert.NilError(t, err)
	assert.Equal(t, first, second)

	// a different size yields a different fingerprint
	assert.NilError(t, os.WriteFile(path, []byte("payload-grown"), 0o600))
	third, err := Fingerprint(path)
	assert.NilError(t, err)
	assert.Assert(t, first != third)

	// same content under a different path yields a different fingerprint
	other := filepath.Join(dir, "other.ibt")
	assert.NilError(t, os.WriteFile(other, []byte("payload"), 0o600))
	fourth, err := Fingerprint(other)
	assert.NilError(t, err)
	assert.Assert(t, first != fourth)
}

func TestFingerprint_ModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.ibt")
	assert.NilError(t, os.WriteFile(path, []byte("payload"), 0o600))

	first, err := Fingerprint(path)
	assert.NilError(t, err)

	// same size, later mtime
	newTime := time.Now().Add(5 * time.Second)
	assert.NilError(t, os.Chtimes(path, newTime, newTime))
	second, err := Fingerprint(path)
	assert.NilError(t, err)
	assert.Assert(t, first != second)
}

func TestFingerprint_MissingFile(t *testing.T) {
	_, err := Fingerprint(filepath.Join(t.TempDir(), "nope.ibt"))
	assert.Assert(t, err != nil)
}
