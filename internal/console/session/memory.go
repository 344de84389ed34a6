package session

import (
	"context"
	"sync"
	"time"

	"github.com/xela07ax/agenticlabs-console/internal/fetch"
	"github.com/xela07ax/agenticlabs-console/internal/table"
)

type memEntry struct {
	state     ViewState
	seq       *fetch.Sequencer
	expiresAt time.Time
}

// MemoryStore — потокобезопасная мапа для одного инстанса консоли.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(_ context.Context, sessionID, view string) (ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(sessionID, view, false)
	if e == nil {
		return ViewState{}, nil
	}
	st := e.state
	st.Issued = e.seq.Latest()
	return st, nil
}

func (m *MemoryStore) SaveSort(_ context.Context, sessionID, view string, sort table.SortState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry(sessionID, view, true).state.Sort = sort
	return nil
}

func (m *MemoryStore) Issue(_ context.Context, sessionID, view string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entry(sessionID, view, true).seq.Next(), nil
}

func (m *MemoryStore) CommitPage(_ context.Context, sessionID, view string, token uint64, page Page) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entry(sessionID, view, true)
	if !e.seq.Commit(token) {
		return false, nil
	}
	e.state.Page = page
	e.state.Applied = token
	return true, nil
}

// entry возвращает запись, продлевая TTL; create == false не создает новую.
// Вызывается под m.mu.
func (m *MemoryStore) entry(sessionID, view string, create bool) *memEntry {
	key := sessionID + ":" + view
	now := m.now()

	e, ok := m.entries[key]
	if ok && m.ttl > 0 && now.After(e.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memEntry{seq: &fetch.Sequencer{}}
		m.entries[key] = e
	}
	e.expiresAt = now.Add(m.ttl)
	return e
}
