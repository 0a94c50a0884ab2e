package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wandermate/nearby/internal/block"
	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/location"
	"github.com/wandermate/nearby/internal/match"
	"github.com/wandermate/nearby/internal/proximity"
	apperrors "github.com/wandermate/nearby/pkg/errors"
	"github.com/wandermate/nearby/pkg/validator"
)

var errInvalidAge = errors.New("age bounds must be integers")

type Handler struct {
	locations location.Store
	blocks    block.Writer
	registry  *proximity.Registry
	validator validator.Validator
}

func NewHandler(locations location.Store, blocks block.Writer, registry *proximity.Registry, validator validator.Validator) *Handler {
	return &Handler{
		locations: locations,
		blocks:    blocks,
		registry:  registry,
		validator: validator,
	}
}

// POST /api/location/update
func (h *Handler) UpdateLocation(c *gin.Context) {
	viewerID := c.GetString("viewer_id")

	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("Invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.validator.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse(err.Error(), "INVALID_COORDINATES"))
		return
	}

	coord := geo.Coordinate{Lat: req.Latitude, Lon: req.Longitude}
	if err := h.locations.Upsert(c.Request.Context(), viewerID, coord); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse("Failed to update location", "INTERNAL_ERROR"))
		return
	}

	// A new viewer coordinate supersedes any refresh still in flight.
	h.registry.Coordinator(viewerID).Refresh(coord)

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"message": "Location updated successfully",
	}))
}

// GET /api/nearby
//
// Filter criteria arrive as query params and are applied lazily over
// the already-published result; a criteria change never refetches.
func (h *Handler) GetNearby(c *gin.Context) {
	viewerID := c.GetString("viewer_id")

	criteria, err := parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse(err.Error(), "INVALID_CRITERIA"))
		return
	}

	result := h.registry.Coordinator(viewerID).Filtered(criteria)

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"count":     len(result.Travelers),
		"travelers": result.Travelers,
		"locations": result.Locations,
	}))
}

// POST /api/block
func (h *Handler) Block(c *gin.Context) {
	h.mutateBlock(c, h.blocks.Block)
}

// POST /api/unblock
func (h *Handler) Unblock(c *gin.Context) {
	h.mutateBlock(c, h.blocks.Unblock)
}

func (h *Handler) mutateBlock(c *gin.Context, mutate func(ctx context.Context, blocker, blocked string) error) {
	viewerID := c.GetString("viewer_id")

	var req struct {
		TargetID string `json:"target_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse("Invalid request", "INVALID_REQUEST"))
		return
	}

	if err := h.validator.ValidateIdentity(req.TargetID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse(err.Error(), "INVALID_IDENTITY"))
		return
	}

	if err := mutate(c.Request.Context(), viewerID, req.TargetID); err != nil {
		appErr := blockError(err)
		c.JSON(appErr.StatusCode, ErrorResponse(appErr.Message, "BLOCK_FAILED"))
		return
	}

	c.JSON(http.StatusOK, SuccessResponse(gin.H{
		"message": "Block list updated",
	}))
}

// blockError classifies a block mutation failure: sentinel errors are
// the caller's fault, anything else is a storage failure.
func blockError(err error) *apperrors.AppError {
	if errors.Is(err, apperrors.ErrSelfBlock) || errors.Is(err, apperrors.ErrInvalidIdentity) {
		return apperrors.NewAppError(err, err.Error(), http.StatusBadRequest)
	}
	return apperrors.NewAppError(err, "Failed to update block list", http.StatusInternalServerError)
}

// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func parseCriteria(c *gin.Context) (match.Criteria, error) {
	var criteria match.Criteria

	if raw := c.Query("min_age"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, errInvalidAge
		}
		criteria.MinAge = &v
	}
	if raw := c.Query("max_age"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, errInvalidAge
		}
		criteria.MaxAge = &v
	}
	if criteria.MinAge != nil && criteria.MaxAge != nil && *criteria.MinAge > *criteria.MaxAge {
		return criteria, apperrors.ErrInvalidAgeRange
	}

	criteria.OriginCountryCode = c.Query("origin")
	criteria.Gender = c.Query("gender")
	criteria.TravelStyle = c.Query("travel_style")

	if raw := c.Query("interests"); raw != "" {
		criteria.Interests = strings.Split(raw, ",")
	}

	return criteria, nil
}
