// Package search keeps menu items in an Elasticsearch index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/models"
)

type FoodIndex interface {
	IndexFood(ctx context.Context, item *models.FoodItem) error
	DeleteFood(ctx context.Context, id uuid.UUID) error
	SearchFood(ctx context.Context, query string, restaurantID *uuid.UUID, from, size int) (int64, []uuid.UUID, error)
}

func NewClient(ctx context.Context, cfg config.SearchSettings) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error %s: %s", res.Status(), body)
	}

	return client, nil
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{es: es, index: index}
}

type foodDoc struct {
	ID           string   `json:"id"`
	RestaurantID string   `json:"restaurantId"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	Price        float64  `json:"price"`
	IsAvailable  bool     `json:"isAvailable"`
	IsVegetarian bool     `json:"isVegetarian"`
}

func (i *ESIndex) IndexFood(ctx context.Context, item *models.FoodItem) error {
	doc := foodDoc{
		ID:           item.ID.String(),
		RestaurantID: item.RestaurantID.String(),
		Name:         item.Name,
		Description:  item.Description,
		Tags:         item.Tags,
		Price:        item.Price.InexactFloat64(),
		IsAvailable:  item.IsAvailable,
		IsVegetarian: item.IsVegetarian,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode food doc: %w", err)
	}

	res, err := i.es.Index(i.index, &buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("index food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index food: %s", res.Status())
	}
	return nil
}

func (i *ESIndex) DeleteFood(ctx context.Context, id uuid.UUID) error {
	res, err := i.es.Delete(i.index, id.String(), i.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete food: %s", res.Status())
	}
	return nil
}

// SearchFood returns matching available item ids in relevance order.
func (i *ESIndex) SearchFood(ctx context.Context, query string, restaurantID *uuid.UUID, from, size int) (int64, []uuid.UUID, error) {
	filter := []map[string]any{
		{"term": map[string]any{"isAvailable": true}},
	}
	if restaurantID != nil {
		filter = append(filter, map[string]any{"term": map[string]any{"restaurantId": restaurantID.String()}})
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "description", "tags"},
						"fuzziness": "AUTO",
					},
				},
				"filter": filter,
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
		i.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search food: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search food: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source foodDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		id, err := uuid.Parse(hit.Source.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return r.Hits.Total.Value, ids, nil
}
