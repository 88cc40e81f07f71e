// Package handlers wires the HTTP surface of the sync server: JSON auth
// endpoints, per-app document collections, and SSE snapshot streams.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/zentesthq/zentest/internal/logging"
	"github.com/zentesthq/zentest/internal/server/services"
)

// contextKeyUserID is the gin context key under which the auth middleware
// stores the authenticated user id.
const contextKeyUserID = "userID"

type Handlers struct {
	users     *services.UserService
	docs      *services.DocumentService
	secretKey []byte
	log       logging.Logger
}

func New(users *services.UserService, docs *services.DocumentService, secretKey []byte, log logging.Logger) *Handlers {
	return &Handlers{users: users, docs: docs, secretKey: secretKey, log: log}
}

// NewRouter builds the gin engine with all routes attached.
//
// Subscribe endpoints share the document id position in the path, so the
// GET document route dispatches on the literal id "subscribe".
func (h *Handlers) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/auth/me", h.authRequired, h.me)

	art := api.Group("/artifacts/:appId", h.authRequired)

	pub := art.Group("/public/data")
	pub.GET("/:collection", h.listCollection)
	pub.GET("/:collection/:id", h.getCollectionRoute)
	pub.PUT("/:collection/:id", h.putDocument)
	pub.PATCH("/:collection/:id", h.patchDocument)
	pub.DELETE("/:collection/:id", h.deleteDocument)

	mine := art.Group("/users/me/myProjects")
	mine.GET("", h.listMemberships)
	mine.GET("/:projectId", h.getMembershipRoute)
	mine.PUT("/:projectId", h.putMembership)
	mine.DELETE("/:projectId", h.deleteMembership)

	return r
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
