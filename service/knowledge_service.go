package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tieubaoca/mxp-gateway/repository"
	"github.com/tieubaoca/mxp-gateway/types"
)

// knowledgeOperations lists the operations the dispatch surface accepts.
var knowledgeOperations = []string{"search", "get", "add", "delete"}

// KnowledgeService fronts the knowledge repository for all three servers.
// The repository itself does an unsynchronized read-modify-write of the
// backing file, so the service serializes every operation behind one
// mutex — concurrent HTTP handlers would otherwise race on add/delete and
// lose updates.
type KnowledgeService struct {
	mu   sync.Mutex
	repo repository.KnowledgeRepo
}

// NewKnowledgeService creates the service and seeds the backing file if it
// does not exist yet.
func NewKnowledgeService(repo repository.KnowledgeRepo) (*KnowledgeService, error) {
	if err := repo.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing knowledge base: %w", err)
	}
	return &KnowledgeService{repo: repo}, nil
}

// Search returns entries matching both the text and tag filters.
func (s *KnowledgeService) Search(query string, tags []string) (*types.KnowledgeSearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.repo.Search(query, tags)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return &types.KnowledgeSearchResult{
		Query:        query,
		Tags:         tags,
		ResultsCount: len(results),
		Results:      results,
	}, nil
}

// Get returns a single entry by id.
func (s *KnowledgeService) Get(id string) (*types.KnowledgeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Get(id)
}

// Add creates a new entry. The result reports whether the save reached
// disk; the entry is returned either way.
func (s *KnowledgeService) Add(req types.AddEntryRequest) (*types.KnowledgeEntryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, persisted, err := s.repo.Add(req)
	if err != nil {
		return nil, err
	}
	return &types.KnowledgeEntryResult{Entry: *entry, Persisted: persisted}, nil
}

// Delete removes an entry by id and returns its last contents.
func (s *KnowledgeService) Delete(id string) (*types.KnowledgeEntryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, persisted, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}
	return &types.KnowledgeEntryResult{Entry: *entry, Persisted: persisted}, nil
}

// Execute runs one knowledge operation from a raw tool-call parameter
// object and returns a structured success/failure result. Store errors are
// carried inside the result, never raised to the transport layer.
func (s *KnowledgeService) Execute(params map[string]interface{}) map[string]interface{} {
	operation, _ := params["operation"].(string)
	if operation == "" {
		operation = "search"
	}

	switch operation {
	case "search":
		query, _ := params["query"].(string)
		result, err := s.Search(query, stringSlice(params["tags"]))
		if err != nil {
			return failure(fmt.Sprintf("Error executing operation search: %v", err))
		}
		return map[string]interface{}{
			"success":       true,
			"query":         result.Query,
			"tags":          result.Tags,
			"results_count": result.ResultsCount,
			"results":       result.Results,
		}
	case "get":
		id, _ := params["id"].(string)
		entry, err := s.Get(id)
		if err != nil {
			return failure(err.Error())
		}
		return map[string]interface{}{"success": true, "entry": entry}
	case "add":
		result, err := s.Add(addRequest(params["entry"]))
		if err != nil {
			return failure(err.Error())
		}
		return map[string]interface{}{
			"success":   true,
			"message":   "Entry added successfully",
			"entry":     result.Entry,
			"persisted": result.Persisted,
		}
	case "delete":
		id, _ := params["id"].(string)
		result, err := s.Delete(id)
		if err != nil {
			return failure(err.Error())
		}
		return map[string]interface{}{
			"success":       true,
			"message":       fmt.Sprintf("Entry %s deleted successfully", id),
			"deleted_entry": result.Entry,
			"persisted":     result.Persisted,
		}
	default:
		return map[string]interface{}{
			"success":              false,
			"error":                fmt.Sprintf("Unknown operation: %s", operation),
			"available_operations": knowledgeOperations,
		}
	}
}

// IsValidation reports whether err is a knowledge store validation error.
func IsValidation(err error) bool { return errors.Is(err, types.ErrValidation) }

// IsNotFound reports whether err is a knowledge store not-found error.
func IsNotFound(err error) bool { return errors.Is(err, types.ErrNotFound) }

func failure(msg string) map[string]interface{} {
	return map[string]interface{}{"success": false, "error": msg}
}

// stringSlice converts a decoded JSON array into []string, dropping
// anything that is not a string.
func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// addRequest converts a decoded JSON object into an AddEntryRequest.
func addRequest(v interface{}) types.AddEntryRequest {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return types.AddEntryRequest{}
	}
	req := types.AddEntryRequest{}
	req.Title, _ = obj["title"].(string)
	req.Content, _ = obj["content"].(string)
	req.Tags = stringSlice(obj["tags"])
	return req
}
