/*
Package store keeps uploaded tables so that they can be previewed first and
used to grow trees later on.
*/
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pbanos/sapling/dataset"
)

// StoreError represents an error related with a Store
type StoreError string

// ErrNotFound is returned when a Store has no table with the requested ID
const ErrNotFound = StoreError("table not found")

func (se StoreError) Error() string {
	return string(se)
}

/*
Store is an interface to manage a store where tables can be created,
retrieved and deleted.

All its methods take a context that may allow cancelling the operation
(thus forcing the return of an error) if the implementation allows it.
*/
type Store interface {
	// Create takes a table and stores it, returning the ID generated for it
	// or an error if the table cannot be stored.
	Create(ctx context.Context, t *dataset.Table) (string, error)
	// Get takes an id and returns the table in the store with that id,
	// ErrNotFound if there is none or another error if the store cannot
	// be queried.
	Get(ctx context.Context, id string) (*dataset.Table, error)
	// Delete takes an id and deletes the table with that id from the
	// store. Deleting a missing table returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Close closes the store, freeing any resources in use.
	Close(ctx context.Context) error
}

type memoryStore struct {
	tables map[string]*dataset.Table
	lock   *sync.RWMutex
}

// NewMemoryStore returns an implementation of Store with the process memory
// space as underlying backend
func NewMemoryStore() Store {
	return &memoryStore{
		tables: make(map[string]*dataset.Table),
		lock:   &sync.RWMutex{},
	}
}

func (ms *memoryStore) Create(ctx context.Context, t *dataset.Table) (string, error) {
	var id string
	err := ms.withLock(ctx, func(ctx context.Context) error {
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			id = uuid.NewString()
			_, taken = ms.tables[id]
		}
		ms.tables[id] = t
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (ms *memoryStore) Get(ctx context.Context, id string) (*dataset.Table, error) {
	var t *dataset.Table
	err := ms.withRLock(ctx, func(ctx context.Context) error {
		var ok bool
		t, ok = ms.tables[id]
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ms *memoryStore) Delete(ctx context.Context, id string) error {
	return ms.withLock(ctx, func(ctx context.Context) error {
		if _, ok := ms.tables[id]; !ok {
			return ErrNotFound
		}
		delete(ms.tables, id)
		return nil
	})
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *memoryStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.Lock()
		select {
		case <-ctx.Done():
			ms.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.Unlock()
	}
	return f(ctx)
}

func (ms *memoryStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		ms.lock.RLock()
		select {
		case <-ctx.Done():
			ms.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer ms.lock.RUnlock()
	}
	return f(ctx)
}
