package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

// photo uploads are capped at 10 MB
const maxPhotoSize = 10 << 20

type PropertyHandler struct {
	properties *services.PropertyService
	photos     *services.PhotoService
}

func NewPropertyHandler(properties *services.PropertyService, photos *services.PhotoService) *PropertyHandler {
	return &PropertyHandler{properties: properties, photos: photos}
}

// Create registers a property. Owner only.
// POST /api/v1/properties
func (h *PropertyHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.properties.Create(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// List returns the caller's properties
// GET /api/v1/properties
func (h *PropertyHandler) List(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	properties, err := h.properties.List(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// GetStats summarizes the caller's portfolio
// GET /api/v1/properties/stats
func (h *PropertyHandler) GetStats(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	stats, err := h.properties.GetStats(c.Request.Context(), principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Get returns one property with its units
// GET /api/v1/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	property, err := h.properties.Get(c.Request.Context(), id, principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Update patches a property
// PATCH /api/v1/properties/:id
func (h *PropertyHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.properties.Update(c.Request.Context(), id, principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Delete removes a property. Owner only.
// DELETE /api/v1/properties/:id
func (h *PropertyHandler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.properties.Delete(c.Request.Context(), id, principal.Scope()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "property deleted"})
}

// CreateUnit adds a unit to a property
// POST /api/v1/properties/:id/units
func (h *PropertyHandler) CreateUnit(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit, err := h.properties.CreateUnit(c.Request.Context(), propertyID, principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// GetUnits lists a property's units
// GET /api/v1/properties/:id/units
func (h *PropertyHandler) GetUnits(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	units, err := h.properties.GetUnits(c.Request.Context(), propertyID, principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetVacantUnits lists a property's unoccupied units
// GET /api/v1/properties/:id/units/vacant
func (h *PropertyHandler) GetVacantUnits(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	units, err := h.properties.GetVacantUnits(c.Request.Context(), propertyID, principal.Scope())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// UploadPhoto stores a property photo and queues resizing
// POST /api/v1/properties/:id/photo
func (h *PropertyHandler) UploadPhoto(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)
	propertyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fileHeader.Size > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds 10MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer file.Close()

	url, err := h.photos.Upload(c.Request.Context(), propertyID, principal.Scope(), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo_url": url})
}
