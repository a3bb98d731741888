package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/tieubaoca/mxp-gateway/config"
	"github.com/tieubaoca/mxp-gateway/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

var (
	SHIP_DOCUMENT_CLASS        = "ShipDocument"
	SHIP_DOCUMENT_CLASS_OBJECT = &models.Class{
		Class: SHIP_DOCUMENT_CLASS,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "tags", DataType: []string{"text[]"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore holds ship documents (deck plans, procedures, manuals)
// for semantic retrieval.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(cfg config.WeaviateConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientCfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	SHIP_DOCUMENT_CLASS_OBJECT.Vectorizer = cfg.Text2Vec

	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}
	hasClass := false
	for _, class := range schema.Classes {
		if class.Class == SHIP_DOCUMENT_CLASS {
			hasClass = true
			break
		}
	}
	if !hasClass {
		err = client.Schema().ClassCreator().WithClass(SHIP_DOCUMENT_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create ShipDocument class: %v", err)
		}
	}
	return &WeaviateStore{client: client}, nil
}

// UpsertDocument stores the document under doc.ID, replacing any object
// already held under that id. The id must be a UUID; Weaviate rejects
// anything else.
func (s *WeaviateStore) UpsertDocument(ctx context.Context, doc *types.Document) error {
	properties := map[string]interface{}{
		"content":   doc.Content,
		"title":     doc.Metadata.Title,
		"source":    doc.Metadata.Source,
		"tags":      doc.Metadata.Tags,
		"createdAt": doc.CreatedAt,
	}

	if doc.ID != "" {
		// Drop any previous object under this id; a 404 just means
		// this is a fresh insert.
		_ = s.client.Data().Deleter().
			WithClassName(SHIP_DOCUMENT_CLASS).
			WithID(doc.ID).
			Do(ctx)
	}

	creator := s.client.Data().Creator().
		WithClassName(SHIP_DOCUMENT_CLASS).
		WithProperties(properties)
	if doc.ID != "" {
		creator = creator.WithID(doc.ID)
	}
	result, err := creator.Do(ctx)
	if err != nil {
		return err
	}
	if doc.ID == "" && result != nil && result.Object != nil {
		doc.ID = result.Object.ID.String()
	}
	return nil
}

func (s *WeaviateStore) DeleteDocument(ctx context.Context, id string) error {
	return s.client.Data().Deleter().
		WithClassName(SHIP_DOCUMENT_CLASS).
		WithID(id).
		Do(ctx)
}

// SearchSimilar runs a nearText query, optionally restricted to documents
// carrying any of the given tags, and returns documents with distances.
func (s *WeaviateStore) SearchSimilar(ctx context.Context, queries []string, tags []string, limit int) ([]types.Document, []float32, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "title"},
		{Name: "source"},
		{Name: "tags"},
		{Name: "createdAt"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "distance"}, {Name: "id"}}},
	}
	nearText := s.client.GraphQL().NearTextArgBuilder().
		WithConcepts(queries).
		WithCertainty(0.7)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(SHIP_DOCUMENT_CLASS).
		WithFields(fields...).
		WithNearText(nearText)
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}
	if where := buildTagFilter(tags); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, nil, err
	}
	if result.Errors != nil {
		return nil, nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var docs []types.Document
	var distances []float32

	data, ok := result.Data["Get"].(map[string]interface{})[SHIP_DOCUMENT_CLASS].([]interface{})
	if !ok {
		return docs, distances, nil
	}
	for _, item := range data {
		doc, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		document := types.Document{
			Content: stringValue(doc["content"]),
			Metadata: types.Metadata{
				Title:  stringValue(doc["title"]),
				Source: stringValue(doc["source"]),
				Tags:   parseStringArray(doc["tags"]),
				Custom: map[string]string{},
			},
		}
		if createdAt, ok := doc["createdAt"].(float64); ok {
			document.CreatedAt = int64(createdAt)
		}
		if additional, ok := doc["_additional"].(map[string]interface{}); ok {
			document.ID = stringValue(additional["id"])
			if distance, ok := additional["distance"].(float64); ok {
				distances = append(distances, float32(distance))
				document.Metadata.Custom["distance"] = fmt.Sprintf("%f", distance)
			}
		}
		docs = append(docs, document)
	}
	return docs, distances, nil
}

// buildTagFilter matches documents carrying any of the given tags.
func buildTagFilter(tags []string) *filters.WhereBuilder {
	var whereFilter *filters.WhereBuilder
	for _, tag := range tags {
		tagFilter := filters.Where().
			WithPath([]string{"tags"}).
			WithOperator(filters.ContainsAny).
			WithValueString(tag)
		if whereFilter == nil {
			whereFilter = tagFilter
		} else {
			whereFilter = whereFilter.WithOperator(filters.Or).WithOperands([]*filters.WhereBuilder{tagFilter})
		}
	}
	return whereFilter
}

func parseStringArray(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
