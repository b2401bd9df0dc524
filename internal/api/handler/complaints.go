package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justHusniddin/Antikorbot/internal/export"
	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListComplaints serves the filtered complaint table.
// Query params: status, region_id, is_anonymous, from, to, q, limit, offset.
func (h *Handler) ListComplaints(c *gin.Context) {
	filter, err := parseComplaintFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, total, err := h.Storage.ListComplaints(filter)
	if err != nil {
		h.Log.Errorw("list complaints", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func parseComplaintFilter(c *gin.Context) (storage.ComplaintFilter, error) {
	filter := storage.ComplaintFilter{
		Query: c.Query("q"),
		Limit: defaultPageSize,
	}

	if s := c.Query("status"); s != "" {
		status := models.ComplaintStatus(s)
		if !models.ValidStatus(status) {
			return filter, fmt.Errorf("unknown status %q", s)
		}
		filter.Status = status
	}
	if s := c.Query("region_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			return filter, fmt.Errorf("region_id must be a number")
		}
		filter.RegionID = id
	}
	if s := c.Query("is_anonymous"); s != "" {
		anon, err := strconv.ParseBool(s)
		if err != nil {
			return filter, fmt.Errorf("is_anonymous must be true or false")
		}
		filter.IsAnonymous = &anon
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("from must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return filter, fmt.Errorf("to must be YYYY-MM-DD")
		}
		// Inclusive end date.
		t = t.AddDate(0, 0, 1)
		filter.To = &t
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return filter, fmt.Errorf("limit must be a positive number")
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		filter.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("offset must be a non-negative number")
		}
		filter.Offset = n
	}
	return filter, nil
}

func (h *Handler) GetComplaint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	complaint, err := h.Storage.GetComplaintByID(uint(id))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
		return
	}
	if err != nil {
		h.Log.Errorw("get complaint", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaint"})
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type updateComplaintRequest struct {
	Status     *models.ComplaintStatus `json:"status"`
	AdminNotes *string                 `json:"admin_notes"`
}

func (h *Handler) UpdateComplaint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
		return
	}

	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Status == nil && req.AdminNotes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", *req.Status)})
		return
	}

	complaint, err := h.Storage.UpdateComplaint(uint(id), req.Status, req.AdminNotes)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	case errors.Is(err, storage.ErrComplaintResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "resolved complaints cannot change status"})
	case err != nil:
		h.Log.Errorw("update complaint", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update complaint"})
	default:
		c.JSON(http.StatusOK, complaint)
	}
}

type bulkStatusRequest struct {
	IDs    []uint                 `json:"ids" binding:"required,min=1"`
	Status models.ComplaintStatus `json:"status" binding:"required"`
}

func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids and status required"})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", req.Status)})
		return
	}

	updated, err := h.Storage.BulkUpdateStatus(req.IDs, req.Status)
	if errors.Is(err, storage.ErrComplaintResolved) {
		c.JSON(http.StatusConflict, gin.H{"error": "selection contains resolved complaints"})
		return
	}
	if err != nil {
		h.Log.Errorw("bulk status update", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.Storage.ComplaintStats()
	if err != nil {
		h.Log.Errorw("complaint stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ExportCSV(c *gin.Context) {
	items, err := h.Storage.AllComplaints()
	if err != nil {
		h.Log.Errorw("load complaints for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaints"})
		return
	}
	data, err := export.ComplaintsCSV(items)
	if err != nil {
		h.Log.Errorw("render csv", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}
	serveDownload(c, "complaints.csv", "text/csv; charset=utf-8", data)
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	items, err := h.Storage.AllComplaints()
	if err != nil {
		h.Log.Errorw("load complaints for export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load complaints"})
		return
	}
	data, err := export.ComplaintsXLSX(items)
	if err != nil {
		h.Log.Errorw("render xlsx", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}
	serveDownload(c, "complaints.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func serveDownload(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}
