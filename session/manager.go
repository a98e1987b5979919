package session

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Manager hands out one persisted Store per visitor, backed by a JSON
// file under the configured directory. The reload hook is bound per
// visitor so clearing a lock can signal that visitor's open views.
type Manager struct {
	dir    string
	reload func(userID int)

	mu     sync.Mutex
	stores map[int]Store
}

func NewManager(dir string, reload func(userID int)) *Manager {
	return &Manager{
		dir:    dir,
		reload: reload,
		stores: make(map[int]Store),
	}
}

// ForUser returns the visitor's Store, creating its backing file on
// first use.
func (m *Manager) ForUser(userID int) (Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.stores[userID]; ok {
		return st, nil
	}

	kv, err := NewFileKV(filepath.Join(m.dir, fmt.Sprintf("%d.json", userID)))
	if err != nil {
		return nil, err
	}

	var hook ReloadFunc
	if m.reload != nil {
		id := userID
		hook = func() { m.reload(id) }
	}

	st := NewStore(kv, hook)
	m.stores[userID] = st
	return st, nil
}
