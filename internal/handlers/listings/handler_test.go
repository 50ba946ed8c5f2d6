package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/search"
	"mavuno-backend/internal/store"
)

type fakeListings struct {
	inserted   []*store.Listing
	listed     []store.Listing
	lastFilter store.ListingFilter
	err        error
}

func (f *fakeListings) InsertListing(ctx context.Context, l *store.Listing) error {
	if f.err != nil {
		return f.err
	}
	l.ID = "listing-1"
	f.inserted = append(f.inserted, l)
	return nil
}

func (f *fakeListings) ListListings(ctx context.Context, filter store.ListingFilter) ([]store.Listing, error) {
	f.lastFilter = filter
	return f.listed, f.err
}

type fakeIndex struct {
	indexed   chan *store.Listing
	result    *search.Result
	searchErr error
	lastQuery search.Query
}

func (f *fakeIndex) Index(ctx context.Context, l *store.Listing) error {
	if f.indexed != nil {
		f.indexed <- l
	}
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	f.lastQuery = q
	return f.result, f.searchErr
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return f.url, f.err
}

func performCreate(t *testing.T, h *Handler, body string, withUser bool) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/listings", func(c *gin.Context) {
		if withUser {
			auth.SetUser(c, &auth.User{ID: "user-1", Email: "farmer@example.com", Phone: "+254700000000"})
		}
		h.HandleCreate(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/listings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func performList(t *testing.T, h *Handler, query string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/listings", h.HandleList)

	req := httptest.NewRequest(http.MethodGet, "/api/listings"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateListing(t *testing.T) {
	listings := &fakeListings{}
	index := &fakeIndex{indexed: make(chan *store.Listing, 1)}
	h := NewHandler(LoadConfig(), listings, index, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performCreate(t, h, `{"title":"Fresh Tomatoes","category":"vegetable","price":90,"unit":"kg","quantity_available":250,"location":"Nakuru"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, listings.inserted, 1)
	l := listings.inserted[0]
	assert.Equal(t, "user-1", l.SellerID)
	assert.Equal(t, "active", l.Status)
	require.NotNil(t, l.SellerEmail)
	assert.Equal(t, "farmer@example.com", *l.SellerEmail)

	select {
	case indexed := <-index.indexed:
		assert.Equal(t, "listing-1", indexed.ID)
	case <-time.After(time.Second):
		t.Fatal("listing never indexed")
	}
}

func TestHandleCreateListingValidation(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeListings{}, nil, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performCreate(t, h, `{"title":"Tomatoes","category":"vegetable","unit":"kg"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title, category, price, and unit are required")
}

func TestHandleCreateListingRequiresAuth(t *testing.T) {
	h := NewHandler(LoadConfig(), &fakeListings{}, nil, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performCreate(t, h, `{"title":"Tomatoes","category":"vegetable","price":90,"unit":"kg"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListUsesSearchIndexForKeywords(t *testing.T) {
	index := &fakeIndex{result: &search.Result{
		Listings:  []store.Listing{{ID: "listing-1", Title: "Fresh Tomatoes"}},
		TotalHits: 1,
	}}
	listings := &fakeListings{}
	h := NewHandler(LoadConfig(), listings, index, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performList(t, h, "?q=tomatoes&category=vegetable")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tomatoes", index.lastQuery.Keywords)
	assert.Equal(t, "active", index.lastQuery.Status)
	assert.Empty(t, listings.lastFilter.Keywords, "datastore not consulted when the index answers")

	var body []store.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Fresh Tomatoes", body[0].Title)
}

func TestHandleListFallsBackToDatastore(t *testing.T) {
	index := &fakeIndex{searchErr: search.ErrSearchQueryFailed}
	listings := &fakeListings{listed: []store.Listing{{ID: "listing-2", Title: "Maize"}}}
	h := NewHandler(LoadConfig(), listings, index, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performList(t, h, "?q=maize")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maize", listings.lastFilter.Keywords)
	assert.Contains(t, rec.Body.String(), "Maize")
}

func TestHandleListWithoutKeywordsSkipsIndex(t *testing.T) {
	index := &fakeIndex{}
	listings := &fakeListings{listed: []store.Listing{}}
	h := NewHandler(LoadConfig(), listings, index, &fakeUploader{}, logger.NewTestLogger(t))

	rec := performList(t, h, "?category=vegetable")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, index.lastQuery.Keywords)
	assert.Equal(t, "vegetable", listings.lastFilter.Category)
	assert.Equal(t, 50, listings.lastFilter.Limit)
}
