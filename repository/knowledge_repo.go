package repository

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tieubaoca/mxp-gateway/types"
)

// KnowledgeRepo is the persistence boundary for knowledge entries.
// Every operation loads the backing file fresh and mutating operations
// write it back in full — nothing stays resident between calls.
type KnowledgeRepo interface {
	Initialize() error
	Search(query string, tags []string) ([]types.KnowledgeEntry, error)
	Get(id string) (*types.KnowledgeEntry, error)
	Add(req types.AddEntryRequest) (*types.KnowledgeEntry, bool, error)
	Delete(id string) (*types.KnowledgeEntry, bool, error)
}

type fileKnowledgeRepo struct {
	path string
}

// NewFileKnowledgeRepo creates a knowledge repository backed by a single
// JSON file at the given path.
func NewFileKnowledgeRepo(path string) KnowledgeRepo {
	return &fileKnowledgeRepo{path: path}
}

// seedKnowledgeBase returns the three sample entries written on first use.
func seedKnowledgeBase() *types.KnowledgeBase {
	return &types.KnowledgeBase{
		Entries: []types.KnowledgeEntry{
			{
				ID:        "kb001",
				Title:     "What is MCP?",
				Content:   "Model Context Protocol (MCP) is a standard that connects AI systems with external tools and data sources.",
				Tags:      []string{"mcp", "protocol", "ai"},
				CreatedAt: "2025-05-21T13:00:00-04:00",
			},
			{
				ID:        "kb002",
				Title:     "Containerizing MCP Servers",
				Content:   "MCP servers can be containerized using Docker for easy deployment and scaling.",
				Tags:      []string{"docker", "container", "deployment"},
				CreatedAt: "2025-05-21T13:10:00-04:00",
			},
			{
				ID:        "kb003",
				Title:     "Security Best Practices",
				Content:   "Implement proper authentication and authorization. Use HTTPS. Validate all inputs.",
				Tags:      []string{"security", "best-practices", "auth"},
				CreatedAt: "2025-05-21T13:20:00-04:00",
			},
		},
		Metadata: types.KnowledgeMetadata{
			TotalEntries: 3,
			NextID:       4,
		},
	}
}

// Initialize writes the seed knowledge base if the backing file does not
// exist yet. Safe to call more than once.
func (r *fileKnowledgeRepo) Initialize() error {
	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking knowledge base file: %w", err)
	}
	if err := r.save(seedKnowledgeBase()); err != nil {
		return fmt.Errorf("creating knowledge base file: %w", err)
	}
	log.Printf("Created default knowledge base at %s", r.path)
	return nil
}

// load reads the whole knowledge base. Read and parse failures are
// swallowed: callers get an empty store instead of an I/O error, so
// search and get keep working when the file is missing or corrupt.
func (r *fileKnowledgeRepo) load() *types.KnowledgeBase {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading knowledge base: %v", err)
		}
		return &types.KnowledgeBase{Entries: []types.KnowledgeEntry{}}
	}
	var kb types.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		log.Printf("Error parsing knowledge base: %v", err)
		return &types.KnowledgeBase{Entries: []types.KnowledgeEntry{}}
	}
	if kb.Entries == nil {
		kb.Entries = []types.KnowledgeEntry{}
	}
	return &kb
}

// save writes the whole knowledge base, recomputing the metadata so that
// total_entries always matches the persisted entry count.
func (r *fileKnowledgeRepo) save(kb *types.KnowledgeBase) error {
	kb.Metadata.LastUpdated = time.Now().Format(time.RFC3339)
	kb.Metadata.TotalEntries = len(kb.Entries)

	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding knowledge base: %w", err)
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating knowledge base directory: %w", err)
		}
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("writing knowledge base: %w", err)
	}
	return nil
}

// Search returns entries whose title or content contains query
// (case-insensitive; empty query matches everything) and which carry at
// least one of the requested tags (exact match; no tags means no tag
// restriction). Results keep store order.
func (r *fileKnowledgeRepo) Search(query string, tags []string) ([]types.KnowledgeEntry, error) {
	kb := r.load()
	query = strings.ToLower(query)

	results := []types.KnowledgeEntry{}
	for _, entry := range kb.Entries {
		titleMatch := strings.Contains(strings.ToLower(entry.Title), query)
		contentMatch := strings.Contains(strings.ToLower(entry.Content), query)
		if !titleMatch && !contentMatch {
			continue
		}
		if !matchesAnyTag(entry.Tags, tags) {
			continue
		}
		results = append(results, entry)
	}
	return results, nil
}

// matchesAnyTag reports whether entryTags contains at least one of the
// wanted tags. An empty want list matches everything. Tag comparison is
// case-sensitive to match the historical store behavior.
func matchesAnyTag(entryTags, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		for _, t := range entryTags {
			if t == w {
				return true
			}
		}
	}
	return false
}

// Get returns the entry with the given id.
func (r *fileKnowledgeRepo) Get(id string) (*types.KnowledgeEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("no entry ID provided: %w", types.ErrNotFound)
	}
	kb := r.load()
	for i := range kb.Entries {
		if kb.Entries[i].ID == id {
			entry := kb.Entries[i]
			return &entry, nil
		}
	}
	return nil, fmt.Errorf("no entry found with ID %s: %w", id, types.ErrNotFound)
}

// Add validates and appends a new entry, then persists the full store.
// The returned bool reports whether the save reached disk; a failed save
// is logged and the entry is still returned (best-effort persistence).
func (r *fileKnowledgeRepo) Add(req types.AddEntryRequest) (*types.KnowledgeEntry, bool, error) {
	if req.Title == "" && req.Content == "" {
		return nil, false, fmt.Errorf("no entry data provided: %w", types.ErrValidation)
	}
	if req.Title == "" {
		return nil, false, fmt.Errorf("missing required field title: %w", types.ErrValidation)
	}
	if req.Content == "" {
		return nil, false, fmt.Errorf("missing required field content: %w", types.ErrValidation)
	}

	kb := r.load()

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	entry := types.KnowledgeEntry{
		ID:        fmt.Sprintf("kb%03d", r.allocateID(kb)),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	kb.Entries = append(kb.Entries, entry)

	persisted := true
	if err := r.save(kb); err != nil {
		log.Printf("Error saving knowledge base: %v", err)
		persisted = false
	}
	return &entry, persisted, nil
}

// allocateID returns the next entry number and advances the persisted
// counter. The counter never goes backwards, so ids stay unique even after
// entries are deleted from the middle of the store. Files written before
// the counter existed recover it from the highest numeric id present.
func (r *fileKnowledgeRepo) allocateID(kb *types.KnowledgeBase) int {
	next := kb.Metadata.NextID
	if next <= 0 {
		next = maxEntryNumber(kb.Entries) + 1
	}
	kb.Metadata.NextID = next + 1
	return next
}

func maxEntryNumber(entries []types.KnowledgeEntry) int {
	max := 0
	for _, e := range entries {
		n, err := strconv.Atoi(strings.TrimPrefix(e.ID, "kb"))
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

// Delete removes the entry with the given id and persists the full store.
// Like Add, a failed save is logged and the removed entry is still
// returned with persisted=false.
func (r *fileKnowledgeRepo) Delete(id string) (*types.KnowledgeEntry, bool, error) {
	if id == "" {
		return nil, false, fmt.Errorf("no entry ID provided: %w", types.ErrValidation)
	}

	kb := r.load()
	for i := range kb.Entries {
		if kb.Entries[i].ID != id {
			continue
		}
		deleted := kb.Entries[i]
		kb.Entries = append(kb.Entries[:i], kb.Entries[i+1:]...)

		persisted := true
		if err := r.save(kb); err != nil {
			log.Printf("Error saving knowledge base: %v", err)
			persisted = false
		}
		return &deleted, persisted, nil
	}
	return nil, false, fmt.Errorf("no entry found with ID %s: %w", id, types.ErrNotFound)
}
