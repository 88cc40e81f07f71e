package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/auth"
)

type credentialsRequest struct {
	Login       string `json:"login" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

func (h *Handlers) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "login and password are required")
		return
	}

	id, token, err := h.users.Register(c.Request.Context(), req.Login, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, common.ErrLoginAlreadyExists) {
			errorJSON(c, http.StatusConflict, "login already exists")
			return
		}
		h.log.Error(c.Request.Context(), "register failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: id})
}

func (h *Handlers) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "login and password are required")
		return
	}

	id, token, err := h.users.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			errorJSON(c, http.StatusUnauthorized, "invalid login/password")
			return
		}
		h.log.Error(c.Request.Context(), "login failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: id})
}

// authRequired validates the bearer token and stores the user id in the
// request context.
func (h *Handlers) authRequired(c *gin.Context) {
	header := c.GetHeader(common.AccessTokenHeaderName)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		errorJSON(c, http.StatusUnauthorized, "missing access token")
		return
	}

	uid, err := auth.GetUserIDFromToken(token, h.secretKey)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			errorJSON(c, http.StatusUnauthorized, "token expired")
			return
		}
		errorJSON(c, http.StatusUnauthorized, "invalid token")
		return
	}

	c.Set(contextKeyUserID, uid)
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString(contextKeyUserID)
}

// me returns the identity behind the presented token.
func (h *Handlers) me(c *gin.Context) {
	id, err := h.users.IdentityByID(c.Request.Context(), userID(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			errorJSON(c, http.StatusUnauthorized, "unknown user")
			return
		}
		h.log.Error(c.Request.Context(), "identity lookup failed", "error", err)
		errorJSON(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, id)
}
