// Package handler implements the admin panel HTTP API: complaint review,
// user listing, exports, and the live complaint feed over WebSocket.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/justHusniddin/Antikorbot/internal/config"
	"github.com/justHusniddin/Antikorbot/internal/storage"
)

// EventSource exposes the new-complaint subscription for the live feed.
type EventSource interface {
	SubscribeComplaintEvents() *redis.PubSub
}

type Handler struct {
	Storage storage.Storage
	Events  EventSource
	Config  *config.Config
	Log     *zap.SugaredLogger
}

func NewHandler(st storage.Storage, events EventSource, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{
		Storage: st,
		Events:  events,
		Config:  cfg,
		Log:     log,
	}
}

// Router assembles the API routes. Everything except login and the
// WebSocket upgrade sits behind the JWT middleware; the WebSocket carries
// its token in the query string because browsers cannot set headers there.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.GET("/ws/complaints", h.ServeComplaintFeed)

	auth := api.Group("", h.AuthRequired())
	auth.GET("/stats", h.GetStats)
	auth.GET("/complaints", h.ListComplaints)
	auth.GET("/complaints/:id", h.GetComplaint)
	auth.PATCH("/complaints/:id", h.UpdateComplaint)
	auth.POST("/complaints/bulk-status", h.BulkUpdateStatus)
	auth.GET("/exports/complaints.csv", h.ExportCSV)
	auth.GET("/exports/complaints.xlsx", h.ExportXLSX)
	auth.GET("/users", h.ListUsers)
	auth.PATCH("/users/:id/block", h.BlockUser)
	auth.GET("/broadcasts", h.ListBroadcasts)

	return r
}
