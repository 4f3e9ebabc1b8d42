package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vasitha1/lebailleur-app/internal/middleware"
	"github.com/vasitha1/lebailleur-app/internal/models"
	"github.com/vasitha1/lebailleur-app/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create adds a user under the caller: owners create managers, tenants or a
// sibling manager profile for themselves; managers create tenants only
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Create(c.Request.Context(), principal.Scope(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// List returns all users. Owner only.
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FindManagers lists the caller's managers. Owner only.
// GET /api/v1/users/managers
func (h *UserHandler) FindManagers(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	managers, err := h.users.FindManagers(c.Request.Context(), principal.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, managers)
}

// FindMyUsers lists everyone under the caller. Owner only.
// GET /api/v1/users/my-users
func (h *UserHandler) FindMyUsers(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	users, err := h.users.FindByOwner(c.Request.Context(), principal.ProfileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FindProfiles returns every role profile behind an email
// GET /api/v1/users/profiles/:email
func (h *UserHandler) FindProfiles(c *gin.Context) {
	profiles, err := h.users.FindProfiles(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetContext returns a profile plus its available roles, optionally checking
// a role the frontend wants to switch to
// GET /api/v1/users/context/:id?role=manager
func (h *UserHandler) GetContext(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var requestedRole *models.Role
	if raw := c.Query("role"); raw != "" {
		role := models.Role(raw)
		if !role.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		requestedRole = &role
	}

	userContext, err := h.users.GetContext(c.Request.Context(), id, requestedRole)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userContext)
}

// Get returns one user by id
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update patches a user's profile fields
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user profile. Owner only. Deleting an owner profile also
// removes the sibling manager profile sharing its email.
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

// AssignManager attaches a manager to the calling owner. Owner only.
// POST /api/v1/users/assign-manager/:managerId
func (h *UserHandler) AssignManager(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	managerID, ok := parseID(c, "managerId")
	if !ok {
		return
	}

	manager, err := h.users.AssignManager(c.Request.Context(), principal.ProfileID, managerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manager)
}
