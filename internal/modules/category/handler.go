package category

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/faqbase/core/internal/middleware"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	cats := rg.Group("/categories", authMW)
	cats.GET("", h.list)
	cats.GET("/tree", h.tree)

	managed := cats.Group("", middleware.RequireLevel(models.LevelCategoryManager))
	managed.POST("", h.create)
	managed.PUT("/:id", h.rename)
	managed.PATCH("/:id", h.rename)
	managed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	cats, err := h.svc.List()
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, cats)
}

func (h *Handler) tree(c *gin.Context) {
	forest, err := h.svc.Tree()
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, forest)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Create(&dto)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, cat)
}

func (h *Handler) rename(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var dto RenameCategoryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	cat, err := h.svc.Rename(id, &dto)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, cat)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	mode, err := ParseDeleteMode(c.Query("mode"))
	if err != nil {
		response.Err(c, err)
		return
	}
	if err := h.svc.Delete(id, mode); err != nil {
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
