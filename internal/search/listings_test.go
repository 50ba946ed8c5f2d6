package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListingQueryKeywordsAndFilters(t *testing.T) {
	q := buildListingQuery(Query{Keywords: "fresh tomatoes", Category: "vegetable", Status: "active"})

	boolQuery, ok := q["query"].(map[string]interface{})["bool"].(map[string]interface{})
	require.True(t, ok)

	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "fresh tomatoes", multiMatch["query"])

	filters := boolQuery["filter"].([]interface{})
	assert.Len(t, filters, 2)
}

func TestBuildListingQueryEmptyFallsBackToMatchAll(t *testing.T) {
	q := buildListingQuery(Query{})

	query := q["query"].(map[string]interface{})
	_, hasMatchAll := query["match_all"]
	assert.True(t, hasMatchAll)
	assert.Contains(t, q, "sort")
}
