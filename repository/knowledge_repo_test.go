package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/mxp-gateway/types"
)

func newTestRepo(t *testing.T) (KnowledgeRepo, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	repo := NewFileKnowledgeRepo(path)
	require.NoError(t, repo.Initialize())
	return repo, path
}

func readFile(t *testing.T, path string) *types.KnowledgeBase {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var kb types.KnowledgeBase
	require.NoError(t, json.Unmarshal(data, &kb))
	return &kb
}

func TestInitializeSeedsThreeEntries(t *testing.T) {
	repo, path := newTestRepo(t)

	entries, err := repo.Search("", nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "kb001", entries[0].ID)
	assert.Equal(t, "kb002", entries[1].ID)
	assert.Equal(t, "kb003", entries[2].ID)

	kb := readFile(t, path)
	assert.Equal(t, 3, kb.Metadata.TotalEntries)
}

func TestInitializeIsIdempotent(t *testing.T) {
	repo, path := newTestRepo(t)

	_, _, err := repo.Add(types.AddEntryRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	// A second Initialize must not reset the store.
	require.NoError(t, repo.Initialize())
	kb := readFile(t, path)
	assert.Equal(t, 4, kb.Metadata.TotalEntries)
}

func TestAddThenGetRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)

	created, persisted, err := repo.Add(types.AddEntryRequest{
		Title:   "Engine room procedures",
		Content: "Check oil pressure before startup.",
		Tags:    []string{"engine", "procedures"},
	})
	require.NoError(t, err)
	assert.True(t, persisted)
	require.NotNil(t, created)

	got, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Content, got.Content)
	assert.Equal(t, created.Tags, got.Tags)
}

func TestSearchEmptyQueryReturnsEverything(t *testing.T) {
	repo, _ := newTestRepo(t)

	entries, err := repo.Search("", nil)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSearchTitleSubstringCaseInsensitive(t *testing.T) {
	repo, _ := newTestRepo(t)

	entries, err := repo.Search("SECURITY", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kb003", entries[0].ID)

	entries, err = repo.Search("containerizing", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kb002", entries[0].ID)

	entries, err = repo.Search("no such text anywhere", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchContentSubstring(t *testing.T) {
	repo, _ := newTestRepo(t)

	// "Docker" appears only in kb002's content.
	entries, err := repo.Search("docker for easy", nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kb002", entries[0].ID)
}

func TestSearchByTagOnSeedStore(t *testing.T) {
	repo, _ := newTestRepo(t)

	entries, err := repo.Search("", []string{"security"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kb003", entries[0].ID)
}

func TestSearchTagMatchingIsCaseSensitive(t *testing.T) {
	repo, _ := newTestRepo(t)

	entries, err := repo.Search("", []string{"Security"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchAnyOfRequestedTags(t *testing.T) {
	repo, _ := newTestRepo(t)

	entries, err := repo.Search("", []string{"security", "docker"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "kb002", entries[0].ID)
	assert.Equal(t, "kb003", entries[1].ID)
}

func TestSearchBothFiltersMustMatch(t *testing.T) {
	repo, _ := newTestRepo(t)

	// Text matches kb003 only, tag matches kb002 only — intersection empty.
	entries, err := repo.Search("security", []string{"docker"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchMissingFileReturnsEmpty(t *testing.T) {
	repo := NewFileKnowledgeRepo(filepath.Join(t.TempDir(), "nope.json"))

	entries, err := repo.Search("", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchCorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	repo := NewFileKnowledgeRepo(path)

	entries, err := repo.Search("", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddValidation(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, _, err := repo.Add(types.AddEntryRequest{})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = repo.Add(types.AddEntryRequest{Title: "x"})
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = repo.Add(types.AddEntryRequest{Content: "y"})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestAddDefaultsTagsToEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	created, _, err := repo.Add(types.AddEntryRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.NotNil(t, created.Tags)
	assert.Empty(t, created.Tags)
}

func TestGetNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = repo.Get("")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteValidationAndNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, _, err := repo.Delete("")
	assert.ErrorIs(t, err, types.ErrValidation)

	_, _, err = repo.Delete("nope")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddDeleteRoundTrip(t *testing.T) {
	repo, path := newTestRepo(t)

	before := readFile(t, path).Metadata.TotalEntries

	created, _, err := repo.Add(types.AddEntryRequest{Title: "temp", Content: "temp entry"})
	require.NoError(t, err)

	deleted, persisted, err := repo.Delete(created.ID)
	require.NoError(t, err)
	assert.True(t, persisted)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "temp", deleted.Title)

	kb := readFile(t, path)
	assert.Equal(t, before, kb.Metadata.TotalEntries)

	entries, err := repo.Search("temp entry", nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIDsStayUniqueAfterDeletions(t *testing.T) {
	repo, _ := newTestRepo(t)

	// Delete from the middle, then add twice. With a count-based scheme the
	// first add would reuse kb003; the persisted counter keeps going up.
	_, _, err := repo.Delete("kb002")
	require.NoError(t, err)

	first, _, err := repo.Add(types.AddEntryRequest{Title: "a", Content: "a"})
	require.NoError(t, err)
	assert.Equal(t, "kb004", first.ID)

	second, _, err := repo.Add(types.AddEntryRequest{Title: "b", Content: "b"})
	require.NoError(t, err)
	assert.Equal(t, "kb005", second.ID)
}

func TestIDCounterRecoveredFromLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	legacy := types.KnowledgeBase{
		Entries: []types.KnowledgeEntry{
			{ID: "kb001", Title: "one", Content: "one", Tags: []string{}},
			{ID: "kb007", Title: "seven", Content: "seven", Tags: []string{}},
		},
		Metadata: types.KnowledgeMetadata{TotalEntries: 2},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	repo := NewFileKnowledgeRepo(path)
	created, _, err := repo.Add(types.AddEntryRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "kb008", created.ID)
}

func TestSaveRecomputesMetadata(t *testing.T) {
	repo, path := newTestRepo(t)

	_, _, err := repo.Add(types.AddEntryRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	kb := readFile(t, path)
	assert.Equal(t, len(kb.Entries), kb.Metadata.TotalEntries)
	assert.NotEmpty(t, kb.Metadata.LastUpdated)
}

func TestAddUnwritableFileReportsNotPersisted(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("write permissions are not enforced for root")
	}
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	repo := NewFileKnowledgeRepo(path)
	require.NoError(t, repo.Initialize())
	require.NoError(t, os.Chmod(path, 0o444))
	t.Cleanup(func() { _ = os.Chmod(path, 0o644) })

	created, persisted, err := repo.Add(types.AddEntryRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.False(t, persisted)
}
