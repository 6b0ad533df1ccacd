package barcache

import (
	"context"
	"time"
)

// NoopStore is a no-op implementation used when no cache is configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NoopStore) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NoopStore) Close() error                                              { return nil }
