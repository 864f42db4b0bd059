package testsupport

import (
	"context"
	"testing"

	"subcue/internal/config"
	"subcue/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// PutDocument caches body under source for tests.
func PutDocument(t testing.TB, st *store.Store, source, body string) *store.Document {
	t.Helper()

	doc, _, err := st.Put(context.Background(), store.Document{Source: source, Body: body})
	if err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return doc
}
