package recipe

import (
	"context"
	"errors"
	"sync"

	"mixmate/internal/pkg/common"
)

var errStoreDown = errors.New("store down")

// memStore 測試用的記憶體儲存
type memStore struct {
	mu       sync.Mutex
	recipes  map[string][]common.SavedRecipe
	profiles map[string]bool
	fail     bool
}

func newMemStore() *memStore {
	return &memStore{
		recipes:  make(map[string][]common.SavedRecipe),
		profiles: make(map[string]bool),
	}
}

func (m *memStore) Load(ctx context.Context, userID string) ([]common.SavedRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}
	return append([]common.SavedRecipe(nil), m.recipes[userID]...), nil
}

func (m *memStore) Update(ctx context.Context, userID string, fn func([]common.SavedRecipe) ([]common.SavedRecipe, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	next, err := fn(append([]common.SavedRecipe(nil), m.recipes[userID]...))
	if err != nil {
		return err
	}
	m.recipes[userID] = next
	return nil
}

func (m *memStore) SetAgeVerified(ctx context.Context, userID string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	m.profiles[userID] = verified
	return nil
}

func (m *memStore) AgeVerified(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, errStoreDown
	}
	return m.profiles[userID], nil
}

func (m *memStore) DeleteUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}
	delete(m.profiles, userID)
	delete(m.recipes, userID)
	return nil
}
