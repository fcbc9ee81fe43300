// api/handlers/analytics_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ddroy9090-ind/reliant-page-access/analytics"
	"github.com/ddroy9090-ind/reliant-page-access/models"
	"github.com/ddroy9090-ind/reliant-page-access/store"
	"github.com/ddroy9090-ind/reliant-page-access/utils"
)

type AnalyticsHandlers struct {
	LogStore store.LogStore
	RowLimit int
}

func NewAnalyticsHandlers(s store.LogStore, rowLimit int) *AnalyticsHandlers {
	if rowLimit <= 0 {
		rowLimit = store.DefaultRowLimit
	}
	return &AnalyticsHandlers{
		LogStore: s,
		RowLimit: rowLimit,
	}
}

// GetPageAnalytics serves the dashboard payload for a date range. Malformed
// or missing dates fall back to the trailing 30-day window rather than
// erroring; only a store failure surfaces, and then only as a generic
// message.
func (h *AnalyticsHandlers) GetPageAnalytics(c *gin.Context) {
	start, end := utils.ResolveDateRange(c.Query("start"), c.Query("end"), time.Now())

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	rows, err := h.LogStore.FetchRows(ctx, start, end, h.RowLimit)
	if err != nil {
		log.Printf("Error fetching page access logs for analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics.BuildPageAnalytics(rows))
}

// TrackAccess records a batch of page hits sent by the portal pages. The
// server stamps the record id, the client IP and any missing timestamp or
// user-agent before handing the batch to the store.
func (h *AnalyticsHandlers) TrackAccess(c *gin.Context) {
	var incoming []models.AccessLogRecord
	if err := c.ShouldBindJSON(&incoming); err != nil {
		log.Printf("Error binding incoming access log JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incoming) == 0 {
		c.Status(http.StatusOK)
		return
	}

	records := make([]models.AccessLogRecord, 0, len(incoming))
	for _, record := range incoming {
		record.RecordID = uuid.New().String()
		record.IPAddress = c.ClientIP()
		if record.AccessedAt.IsZero() {
			record.AccessedAt = time.Now().UTC()
		}
		if record.UserAgent == "" {
			record.UserAgent = c.Request.UserAgent()
		}
		if record.Referer == "" {
			record.Referer = c.Request.Referer()
		}
		records = append(records, record)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.LogStore.InsertAccessEvents(ctx, records); err != nil {
		log.Printf("Error inserting page access log records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record page access"})
		return
	}

	c.Status(http.StatusOK)
}
