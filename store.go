package portfolio

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// Store persists the serialized state to a file. Saves are debounced and
// fire-and-forget: ledger mutation never waits for a write, and a failed
// write is retried in the background without ever surfacing as a ledger
// error. Delivery is at-least-once, last-write-wins by lastModified.
type Store struct {
	Path     string
	Debounce time.Duration
	Retries  int

	mu      sync.Mutex
	pending *State
	timer   *time.Timer
}

// NewStore creates a store with a default debounce window.
func NewStore(path string) *Store {
	return &Store{Path: path, Debounce: 2 * time.Second, Retries: 3}
}

// Load reads the state from disk. A missing file yields an empty state in
// the given base currency rather than an error. If the on-disk state is
// newer than the given in-memory one, the on-disk state wins wholesale.
func (st *Store) Load(baseCurrency string) (State, error) {
	f, err := os.Open(st.Path)
	if os.IsNotExist(err) {
		return NewState(baseCurrency), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer f.Close()

	s, err := DecodeState(f)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s, nil
}

// Resolve picks between an in-memory state and the stored one: the most
// recent lastModified wins wholesale. There is no field-level merge.
func Resolve(local, remote State) State {
	if remote.LastModified.After(local.LastModified) {
		return remote
	}
	return local
}

// Save schedules a write of the state. Calls within the debounce window
// coalesce to the latest state.
func (st *Store) Save(s State) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.pending = &s
	if st.timer != nil {
		st.timer.Stop()
	}
	st.timer = time.AfterFunc(st.Debounce, st.flushPending)
}

// Flush writes any pending state synchronously. Call on process exit.
func (st *Store) Flush() error {
	st.mu.Lock()
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	pending := st.pending
	st.pending = nil
	st.mu.Unlock()

	if pending == nil {
		return nil
	}
	return st.write(*pending)
}

func (st *Store) flushPending() {
	st.mu.Lock()
	pending := st.pending
	st.pending = nil
	st.mu.Unlock()

	if pending == nil {
		return
	}

	// Bounded retry with backoff. Failures are logged, never raised: local
	// correctness does not depend on the write.
	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		err := st.write(*pending)
		if err == nil {
			return
		}
		if attempt >= st.Retries {
			log.Printf("giving up saving state to %s: %v", st.Path, err)
			return
		}
		log.Printf("retrying save to %s after %v: %v", st.Path, backoff, err)
		time.Sleep(backoff)
		backoff *= 2
	}
}

// write encodes and atomically replaces the state file.
func (st *Store) write(s State) error {
	var buf bytes.Buffer
	if err := EncodeState(&buf, s); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	tmp := st.Path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp, st.Path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
