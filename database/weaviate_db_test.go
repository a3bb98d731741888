package database

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/mxp-gateway/config"
	"github.com/tieubaoca/mxp-gateway/types"
)

// weaviateCall is one request the fake server saw.
type weaviateCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// fakeWeaviate stands in for the Weaviate REST API: it answers the schema
// check, object creation, and object deletion, and records every call.
type fakeWeaviate struct {
	mu       sync.Mutex
	calls    []weaviateCall
	hasClass bool
	serverID string
}

func (f *fakeWeaviate) handler(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, weaviateCall{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v1/meta":
		// The client only uses class-scoped object paths once it has
		// confirmed the server version supports them.
		writeJSON(w, http.StatusOK, map[string]interface{}{"version": "1.27.0"})
	case r.Method == http.MethodGet && r.URL.Path == "/v1/schema":
		classes := []map[string]interface{}{}
		if f.hasClass {
			classes = append(classes, map[string]interface{}{"class": SHIP_DOCUMENT_CLASS})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"classes": classes})
	case r.Method == http.MethodPost && r.URL.Path == "/v1/schema":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPost && r.URL.Path == "/v1/objects":
		if body["id"] == nil {
			body["id"] = f.serverID
		}
		writeJSON(w, http.StatusOK, body)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/v1/objects/"):
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeWeaviate) recorded() []weaviateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]weaviateCall(nil), f.calls...)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestWeaviateStore(t *testing.T, fake *fakeWeaviate) *WeaviateStore {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	store, err := NewWeaviateStore(config.WeaviateConfig{Host: srv.URL})
	require.NoError(t, err)
	return store
}

func TestUpsertDocumentStoresUnderProvidedID(t *testing.T) {
	fake := &fakeWeaviate{hasClass: true}
	store := newTestWeaviateStore(t, fake)

	id := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	doc := &types.Document{
		ID:        id,
		Content:   "Fire stations are listed on deck 4",
		CreatedAt: 1700000000,
		Metadata: types.Metadata{
			Title: "Safety briefing",
			Tags:  []string{"safety"},
		},
	}
	require.NoError(t, store.UpsertDocument(context.Background(), doc))

	var deletePath, createdID string
	for _, call := range fake.recorded() {
		if call.Method == http.MethodDelete {
			deletePath = call.Path
		}
		if call.Method == http.MethodPost && call.Path == "/v1/objects" {
			createdID, _ = call.Body["id"].(string)
			assert.Equal(t, SHIP_DOCUMENT_CLASS, call.Body["class"])
		}
	}
	// The object is stored under the caller's id, replacing any previous
	// object held there, so a later delete with this id works.
	assert.Equal(t, "/v1/objects/"+SHIP_DOCUMENT_CLASS+"/"+id, deletePath)
	assert.Equal(t, id, createdID)
	assert.Equal(t, id, doc.ID)
}

func TestUpsertDocumentAdoptsServerIDWhenEmpty(t *testing.T) {
	serverID := "82056f48-d00b-40ab-9d18-029e1fa67eff"
	fake := &fakeWeaviate{hasClass: true, serverID: serverID}
	store := newTestWeaviateStore(t, fake)

	doc := &types.Document{Content: "Unassigned chunk"}
	require.NoError(t, store.UpsertDocument(context.Background(), doc))

	for _, call := range fake.recorded() {
		assert.NotEqual(t, http.MethodDelete, call.Method, "no delete expected for a fresh insert")
	}
	assert.Equal(t, serverID, doc.ID)
}

func TestDeleteDocumentTargetsID(t *testing.T) {
	fake := &fakeWeaviate{hasClass: true}
	store := newTestWeaviateStore(t, fake)

	id := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	require.NoError(t, store.DeleteDocument(context.Background(), id))

	calls := fake.recorded()
	last := calls[len(calls)-1]
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, "/v1/objects/"+SHIP_DOCUMENT_CLASS+"/"+id, last.Path)
}

func TestNewWeaviateStoreCreatesMissingClass(t *testing.T) {
	fake := &fakeWeaviate{hasClass: false}
	newTestWeaviateStore(t, fake)

	var created bool
	for _, call := range fake.recorded() {
		if call.Method == http.MethodPost && call.Path == "/v1/schema" {
			created = true
			assert.Equal(t, SHIP_DOCUMENT_CLASS, call.Body["class"])
		}
	}
	assert.True(t, created, "expected ShipDocument class creation")
}
