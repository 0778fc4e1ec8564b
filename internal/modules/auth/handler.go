package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/faqbase/core/internal/middleware"
	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/apperr"
	"github.com/faqbase/core/internal/pkg/response"
	sessionpkg "github.com/faqbase/core/internal/pkg/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/register", h.register)
	a.POST("/login", h.login)

	authed := a.Group("", authMW)
	authed.POST("/logout", h.logout)
	authed.GET("/session", h.session)
	authed.GET("/sessions", h.listSessions)
	authed.POST("/sessions/revoke-others", h.revokeOtherSessions)
}

func (h *Handler) register(c *gin.Context) {
	// Signed-in users cannot mass-register accounts.
	if middleware.IsAuthenticated(c) {
		response.ForbiddenMsg(c, "already signed in")
		return
	}

	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.Created(c, toUserResponse(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if apperr.IsKind(err, apperr.KindUnauthenticated) {
			response.UnauthorizedMsg(c, err.Error())
			return
		}
		response.Err(c, err)
		return
	}
	setTokenCookie(c, token, int(sessionpkg.DefaultTTL.Seconds()))
	response.OK(c, loginResponse{Token: token, User: toUserResponse(u)})
}

func (h *Handler) logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.svc.Logout(user.ID, middleware.CurrentSessionID(c)); err != nil {
		response.Err(c, err)
		return
	}
	setTokenCookie(c, "", -1)
	response.NoContent(c)
}

func (h *Handler) session(c *gin.Context) {
	response.OK(c, toUserResponse(middleware.CurrentUser(c)))
}

func (h *Handler) listSessions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	sessions, err := h.svc.ListSessions(user.ID)
	if err != nil {
		response.Err(c, err)
		return
	}

	current := middleware.CurrentSessionID(c)
	items := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, sessionResponse{
			ID:        s.ID,
			IP:        s.IP,
			UA:        s.UA,
			Current:   s.ID == current,
			Created:   s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	response.OK(c, items)
}

func (h *Handler) revokeOtherSessions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.svc.RevokeOtherSessions(user.ID, middleware.CurrentSessionID(c)); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, gin.H{"status": true})
}

func toUserResponse(u *models.UserModel) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{ID: u.ID, Username: u.Username, Level: u.Level}
}

func setTokenCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(middleware.TokenCookie, token, maxAge, "/", "", false, true)
}
