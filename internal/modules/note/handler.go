package note

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/faqbase/core/internal/middleware"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/pagination"
	"github.com/faqbase/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	notes := rg.Group("/notes", authMW)
	notes.GET("", h.list)
	notes.GET("/:id", h.get)
	notes.GET("/:id/render", h.render)

	writers := notes.Group("", middleware.RequireLevel(models.LevelContributor))
	writers.POST("", h.create)
	writers.PUT("/:id", h.update)
	writers.PATCH("/:id", h.update)
	writers.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.BadRequest(c, "invalid category filter")
			return
		}
		categoryID = uint(id)
	}

	notes, page, err := h.svc.List(categoryID, pagination.FromContext(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Paginated(c, notes, page)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	n, err := h.svc.GetByID(id)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handler) render(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	html, err := h.svc.Render(c.Request.Context(), id)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"html": html})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Create(&dto, middleware.CurrentUser(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, n)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var dto UpdateNoteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	n, err := h.svc.Update(id, &dto, middleware.CurrentUser(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, n)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(id, middleware.CurrentUser(c)); err != nil {
		response.Err(c, err)
		return
	}
	response.NoContent(c)
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
