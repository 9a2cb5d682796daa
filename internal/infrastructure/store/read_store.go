package store

import (
	"sync"
)

// ReadStore is the in-memory read model store: collection -> id -> model.
// The projector is its only writer; queries take the read lock. The
// catalog query engine runs over the snapshot returned by GetAll.
type ReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		data: make(map[string]map[string]any),
	}
}

// Set stores a read model.
func (rs *ReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		rs.data[collection] = make(map[string]any)
	}
	rs.data[collection][id] = data
}

// Get retrieves a read model by id.
func (rs *ReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.data[collection] == nil {
		return nil, false
	}
	data, ok := rs.data[collection][id]
	return data, ok
}

// GetAll retrieves all items in a collection. Order is unspecified;
// callers that need an order sort the result themselves.
func (rs *ReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	if rs.data[collection] == nil {
		return nil
	}

	items := make([]any, 0, len(rs.data[collection]))
	for _, item := range rs.data[collection] {
		items = append(items, item)
	}
	return items
}

// Delete removes a read model.
func (rs *ReadStore) Delete(collection, id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] != nil {
		delete(rs.data[collection], id)
	}
}

// Update modifies a read model in place under the write lock. Returns
// false when the model does not exist.
func (rs *ReadStore) Update(collection, id string, updateFn func(current any) any) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.data[collection] == nil {
		return false
	}
	current, ok := rs.data[collection][id]
	if !ok {
		return false
	}
	rs.data[collection][id] = updateFn(current)
	return true
}
