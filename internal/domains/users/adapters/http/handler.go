// Package http exposes staff accounts and login over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cafepos/cafe-api-server/internal/domains/users/adapters/http/mapper"
	usersapp "github.com/cafepos/cafe-api-server/internal/domains/users/application"
	userports "github.com/cafepos/cafe-api-server/internal/domains/users/ports"
	sharederrors "github.com/cafepos/cafe-api-server/internal/shared/errors"
)

// Handler serves the staff account endpoints.
type Handler struct {
	service   userports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service userports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapUserError),
	}
}

// Register mounts the unauthenticated login route.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/auth/login", h.login)
}

// RegisterProtected mounts routes that require a logged-in user.
func (h *Handler) RegisterProtected(r gin.IRouter) {
	r.POST("/auth/logout", h.logout)
	r.GET("/auth/me", h.me)
	r.POST("/auth/password", h.changePassword)
}

// RegisterAdmin mounts the staff management routes.
func (h *Handler) RegisterAdmin(r gin.IRouter) {
	r.GET("/staff", h.list)
	r.POST("/staff", h.register)
	r.DELETE("/staff/:username", h.delete)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) logout(c *gin.Context) {
	user := CurrentUser(c)
	if user != nil {
		h.service.Logout(c.Request.Context(), user.Username)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		h.responder.Unauthorized(c, "not logged in")
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUser(user))
}

func (h *Handler) changePassword(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		h.responder.Unauthorized(c, "not logged in")
		return
	}
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), user.Username, req.Password); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainUsers(users))
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Register(c.Request.Context(), req.Username, req.Password, req.FullName, req.Role)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainUser(user))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("username")); err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func mapUserError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidInput):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, usersapp.ErrAuthentication):
		return sharederrors.ErrUnauthorized.WithDetail(err.Error()), true
	case errors.Is(err, userports.ErrUsernameTaken):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, userports.ErrNotFound):
		return sharederrors.ErrNotFound.WithDetail("user not found"), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}
