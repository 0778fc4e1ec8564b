package user

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/faqbase/core/internal/middleware"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/modules/category"
	"github.com/faqbase/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	users := rg.Group("/users", authMW, middleware.RequireLevel(models.LevelAdmin))
	users.GET("", h.list)
	users.GET("/:id", h.get)
	users.PUT("/:id", h.update)
	users.PATCH("/:id", h.update)
	users.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.svc.List()
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, users)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	u, err := h.svc.GetByID(id)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var dto EditUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Update(id, &dto)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, u)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	mode, err := category.ParseDeleteMode(c.Query("mode"))
	if err != nil {
		response.Err(c, err)
		return
	}
	if err := h.svc.Delete(id, middleware.CurrentUser(c), mode); err != nil {
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
