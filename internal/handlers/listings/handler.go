// Package listings implements the marketplace listing endpoints. Postgres is
// the source of truth; the Elasticsearch index serves keyword search and is
// maintained best-effort.
package listings

import (
	"context"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mavuno-backend/internal/common/auth"
	"mavuno-backend/internal/common/errors"
	"mavuno-backend/internal/common/logger"
	"mavuno-backend/internal/common/storage"
	"mavuno-backend/internal/search"
	"mavuno-backend/internal/store"
)

const Endpoint = "listings"

type ListingStore interface {
	InsertListing(ctx context.Context, l *store.Listing) error
	ListListings(ctx context.Context, filter store.ListingFilter) ([]store.Listing, error)
}

// SearchIndex is the optional Elasticsearch side of the listings surface.
type SearchIndex interface {
	Index(ctx context.Context, l *store.Listing) error
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

type Handler struct {
	config   *Config
	listings ListingStore
	index    SearchIndex
	uploader storage.Uploader
	logger   logger.Logger
}

func NewHandler(config *Config, listings ListingStore, index SearchIndex, uploader storage.Uploader, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		listings: listings,
		index:    index,
		uploader: uploader,
		logger:   log.With(map[string]interface{}{"endpoint": Endpoint}),
	}
}

func (h *Handler) HandleCreate(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" || req.Category == "" || req.Unit == "" || req.Price <= 0 {
		errors.WriteHTTPError(c, errors.NewValidationError("title, category, price, and unit are required"))
		return
	}

	user, ok := auth.UserFrom(c)
	if !ok {
		errors.WriteHTTPError(c, errors.NewAuthRequiredError())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	listing := &store.Listing{
		SellerID:          user.ID,
		Title:             req.Title,
		Category:          req.Category,
		Price:             req.Price,
		Unit:              req.Unit,
		QuantityAvailable: req.QuantityAvailable,
		Status:            "active",
	}
	if req.Description != "" {
		listing.Description = &req.Description
	}
	if req.Location != "" {
		listing.Location = &req.Location
	}
	if req.SellerName != "" {
		listing.SellerName = &req.SellerName
	}
	if user.Email != "" {
		listing.SellerEmail = &user.Email
	}
	if user.Phone != "" {
		listing.SellerPhone = &user.Phone
	}

	if req.Image != "" {
		imageData, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			errors.WriteHTTPError(c, errors.NewValidationError("image must be valid base64"))
			return
		}
		imageURL, err := h.uploader.Upload(ctx, storage.ListingKey(user.ID, time.Now()), "image/jpeg", imageData)
		if err != nil {
			h.logger.Error("listing image upload failed", map[string]interface{}{
				"userId": user.ID,
				"error":  err.Error(),
			})
			errors.WriteHTTPError(c, errors.NewUpstreamError(errors.ErrCodeUploadFailed, "Failed to upload image", err.Error()))
			return
		}
		listing.ImageURL = &imageURL
	}

	if err := h.listings.InsertListing(ctx, listing); err != nil {
		h.logger.Error("failed to create listing", map[string]interface{}{
			"userId": user.ID,
			"error":  err.Error(),
		})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to create listing", err.Error()))
		return
	}

	if h.index != nil {
		// Index outside the request lifecycle; search catches up on its own.
		go func(l store.Listing) {
			if err := h.index.Index(context.Background(), &l); err != nil {
				h.logger.Warn("listing indexing failed", map[string]interface{}{
					"listingId": l.ID,
					"error":     err.Error(),
				})
			}
		}(*listing)
	}

	c.JSON(201, gin.H{"listing": listing})
}

func (h *Handler) HandleList(c *gin.Context) {
	keywords := c.Query("q")
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = h.config.DefaultLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.Timeout)
	defer cancel()

	if keywords != "" && h.index != nil {
		result, err := h.index.Search(ctx, search.Query{
			Keywords: keywords,
			Category: category,
			Status:   "active",
			Size:     limit,
		})
		if err == nil {
			c.JSON(200, result.Listings)
			return
		}
		h.logger.Warn("search index unavailable, falling back to datastore", map[string]interface{}{
			"error": err.Error(),
		})
	}

	listings, err := h.listings.ListListings(ctx, store.ListingFilter{
		Keywords: keywords,
		Category: category,
		Status:   "active",
		Limit:    limit,
	})
	if err != nil {
		h.logger.Error("failed to fetch listings", map[string]interface{}{"error": err.Error()})
		errors.WriteHTTPError(c, errors.NewPersistenceError("Failed to fetch", err.Error()))
		return
	}
	c.JSON(200, listings)
}
