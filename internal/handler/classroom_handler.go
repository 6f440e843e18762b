package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-client/internal/dto"
	"github.com/noah-isme/classroom-client/internal/middleware"
	"github.com/noah-isme/classroom-client/internal/models"
	appErrors "github.com/noah-isme/classroom-client/pkg/errors"
	"github.com/noah-isme/classroom-client/pkg/response"
)

type classroomService interface {
	Load(ctx context.Context) []models.Classroom
	Join(ctx context.Context, code string) (*models.Classroom, error)
	RemoveClassroom(ctx context.Context, target *models.Classroom) bool
	Detail(ctx context.Context, id string) (*models.ClassroomDetail, error)
	Assignments(ctx context.Context, id string, submissions bool) ([]models.Assignment, error)
	Materials(ctx context.Context, id string) ([]models.Material, error)
}

// ClassroomHandler exposes the home and classroom screens.
type ClassroomHandler struct {
	service classroomService
}

// NewClassroomHandler constructs a classroom handler.
func NewClassroomHandler(svc classroomService) *ClassroomHandler {
	return &ClassroomHandler{service: svc}
}

// List godoc
// @Summary List joined classrooms
// @Tags Classrooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	items := h.service.Load(c.Request.Context())
	middleware.SetMeta(c, "total", len(items))
	response.JSON(c, http.StatusOK, items, middleware.ExtractMeta(c))
}

// Join godoc
// @Summary Join a classroom by code
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body dto.JoinClassroomRequest true "Join code"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /classrooms [post]
func (h *ClassroomHandler) Join(c *gin.Context) {
	var req dto.JoinClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "please enter a class code"))
		return
	}
	classroom, err := h.service.Join(c.Request.Context(), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, classroom)
}

// Remove godoc
// @Summary Leave a classroom
// @Description Removes the classroom with the path id. Without an id the first entry whose code matches ?code= is removed. Unknown targets are a no-op.
// @Tags Classrooms
// @Produce json
// @Param id path string false "Classroom ID"
// @Param code query string false "Class code, used when the entry has no id"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [delete]
func (h *ClassroomHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()
	var target *models.Classroom
	id := strings.TrimSpace(c.Param("id"))
	code := strings.TrimSpace(c.Query("code"))
	if id != "" || code != "" {
		target = &models.Classroom{ID: id, Code: code}
	}
	ok := h.service.RemoveClassroom(ctx, target)
	middleware.SetMeta(c, "total", len(h.service.Load(ctx)))
	response.JSON(c, http.StatusOK, gin.H{"success": ok}, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Classroom detail with roster
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id} [get]
func (h *ClassroomHandler) Get(c *gin.Context) {
	detail, err := h.service.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetStale(c, detail.Stale)
	response.JSON(c, http.StatusOK, detail, middleware.ExtractMeta(c))
}

// Assignments godoc
// @Summary Classroom assignments
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Param type query string false "submission for submission assignments"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/assignments [get]
func (h *ClassroomHandler) Assignments(c *gin.Context) {
	items, err := h.service.Assignments(c.Request.Context(), c.Param("id"), c.Query("type") == "submission")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}

// Materials godoc
// @Summary Classroom materials
// @Tags Classrooms
// @Produce json
// @Param id path string true "Classroom ID"
// @Success 200 {object} response.Envelope
// @Router /classrooms/{id}/materials [get]
func (h *ClassroomHandler) Materials(c *gin.Context) {
	items, err := h.service.Materials(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"total": len(items)})
}
