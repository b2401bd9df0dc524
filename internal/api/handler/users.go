package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	limit := defaultPageSize
	offset := 0
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= maxPageSize {
			limit = n
		}
	}
	if s := c.Query("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}

	users, total, err := h.Storage.ListUsers(limit, offset)
	if err != nil {
		h.Log.Errorw("list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users, "total": total})
}

type blockUserRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}

// BlockUser toggles whether the user receives broadcasts. The path id is
// the telegram ID, the panel shows no internal keys.
func (h *Handler) BlockUser(c *gin.Context) {
	telegramID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req blockUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blocked flag required"})
		return
	}

	if err := h.Storage.SetUserBlocked(telegramID, *req.Blocked); err != nil {
		h.Log.Errorw("set user blocked", "telegram_id", telegramID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"telegram_id": telegramID, "blocked": *req.Blocked})
}

func (h *Handler) ListBroadcasts(c *gin.Context) {
	items, err := h.Storage.ListBroadcasts()
	if err != nil {
		h.Log.Errorw("list broadcasts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load broadcasts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
