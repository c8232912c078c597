// Package storage provides the string key-value store that study progress
// is persisted in.
package storage

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by Set when a value is larger than the store allows.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KeyValue is a synchronous string-keyed store.
type KeyValue interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Memory is an in-process KeyValue. It is used when no database file is
// available and in tests.
type Memory struct {
	mu           sync.Mutex
	data         map[string]string
	maxValueSize int
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Memory{data: make(map[string]string), maxValueSize: o.maxValueSize}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.maxValueSize > 0 && len(value) > m.maxValueSize {
		return ErrQuotaExceeded
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Option configures a store.
type Option func(*options)

type options struct {
	maxValueSize int
}

// WithMaxValueSize rejects values longer than n bytes with ErrQuotaExceeded.
func WithMaxValueSize(n int) Option {
	return func(o *options) {
		o.maxValueSize = n
	}
}
