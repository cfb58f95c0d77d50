package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openakita/feedback-gateway/internal/report"
)

// RegisterRoutes mounts the authenticated admin surface.
func RegisterRoutes(router *gin.Engine, service *Service, apiKey string) {
	handler := &httpHandler{service: service}

	group := router.Group("/admin", Middleware(apiKey))
	group.GET("/reports", handler.list)
	group.GET("/reports/:id", handler.get)
	group.GET("/reports/:id/download", handler.download)
	group.DELETE("/reports/:id", handler.delete)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) list(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	result, err := h.service.List(c.Request.Context(), c.Query("type"), c.Query("cursor"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) get(c *gin.Context) {
	id := c.Param("id")
	if !report.ValidID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	meta, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read report"})
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (h *httpHandler) download(c *gin.Context) {
	id := c.Param("id")
	if !report.ValidID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	reader, size, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, report.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download report"})
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report_"+id+".zip"))
	c.Header("Content-Length", strconv.FormatInt(size, 10))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
}

func (h *httpHandler) delete(c *gin.Context) {
	id := c.Param("id")
	if !report.ValidID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "deleted": id})
}
