// Package search maintains the Elasticsearch index over marketplace
// listings. Indexing is best-effort: Postgres stays the source of truth and
// a failed index write never fails the request that created the listing.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/store"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrIndexingFailed    = errors.New("INDEXING_FAILED")
)

const defaultListingsIndex = "market_listings"

type ListingIndex struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewListingIndex(client *elasticsearch.Client, index string, log logger.Logger) *ListingIndex {
	if index == "" {
		index = defaultListingsIndex
	}
	return &ListingIndex{
		client: client,
		index:  index,
		logger: log.With(map[string]interface{}{"component": "listing-index"}),
	}
}

// Index writes one listing document keyed by its Postgres id.
func (li *ListingIndex) Index(ctx context.Context, l *store.Listing) error {
	body, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("%w: marshal listing: %v", ErrIndexingFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      li.index,
		DocumentID: l.ID,
		Body:       strings.NewReader(string(body)),
		Refresh:    "false",
	}
	res, err := req.Do(ctx, li.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexingFailed, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("%w: status %s", ErrIndexingFailed, res.Status())
	}
	return nil
}

// Query narrows a listing search; empty fields mean no constraint.
type Query struct {
	Keywords string
	Category string
	Status   string
	From     int
	Size     int
}

// Result carries the matched listings plus search metadata.
type Result struct {
	Listings  []store.Listing `json:"listings"`
	TotalHits int             `json:"totalHits"`
}

// Search runs a keyword query over title, description and category.
func (li *ListingIndex) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Size <= 0 {
		q.Size = 20
	}

	body, _ := json.Marshal(buildListingQuery(q))
	req := esapi.SearchRequest{
		Index: []string{li.index},
		Body:  strings.NewReader(string(body)),
		From:  &q.From,
		Size:  &q.Size,
	}

	res, err := req.Do(ctx, li.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSearchQueryFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: status %s", ErrSearchQueryFailed, res.Status())
	}

	var decoded struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source store.Listing `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	result := &Result{TotalHits: decoded.Hits.Total.Value}
	for _, hit := range decoded.Hits.Hits {
		result.Listings = append(result.Listings, hit.Source)
	}
	return result, nil
}

func buildListingQuery(q Query) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"title^3", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	}
	if q.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": q.Category},
		})
	}
	if q.Status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": q.Status},
		})
	}

	boolQuery := map[string]interface{}{}
	if len(mustClauses) > 0 {
		boolQuery["must"] = mustClauses
	}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}
	if len(boolQuery) == 0 {
		return map[string]interface{}{
			"query": map[string]interface{}{"match_all": map[string]interface{}{}},
			"sort":  []interface{}{map[string]interface{}{"created_at": "desc"}},
		}
	}
	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
}
