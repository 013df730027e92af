// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package syncx contains useful synchronization primitives.
package syncx

import (
	"sync"

	"github.com/go4org/hashtriemap"
)

// Lazy represents a lazily computed value.
type Lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

// Get returns T, calling f to compute it, if necessary.
func (l *Lazy[T]) Get(f func() T) T {
	l.once.Do(func() { l.val = f() })
	return l.val
}

// GetErr returns T and an error, calling f to compute them, if necessary.
func (l *Lazy[T]) GetErr(f func() (T, error)) (T, error) {
	l.once.Do(func() { l.val, l.err = f() })
	return l.val, l.err
}

// Map is a typed concurrent map. The zero value is ready to use.
// It should not be copied after first use.
type Map[K comparable, V any] struct {
	m hashtriemap.HashTrieMap[K, V]
}

// Load returns the value stored for key, if any.
func (m *Map[K, V]) Load(key K) (value V, ok bool) { return m.m.Load(key) }

// Store sets the value for key.
func (m *Map[K, V]) Store(key K, value V) { m.m.Store(key, value) }

// LoadOrStore returns the existing value for key if present. Otherwise, it
// stores and returns value. loaded is true if the value was loaded.
func (m *Map[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return m.m.LoadOrStore(key, value)
}

// LoadAndDelete deletes the value for key, returning the previous value if
// any.
func (m *Map[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	return m.m.LoadAndDelete(key)
}

// Delete deletes the value for key.
func (m *Map[K, V]) Delete(key K) { m.m.Delete(key) }
