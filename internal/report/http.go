package report

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openakita/feedback-gateway/internal/metrics"
)

// RegisterRoutes mounts the public submission endpoint.
func RegisterRoutes(router *gin.Engine, service *Service) {
	handler := &httpHandler{service: service}
	router.PUT("/report/:id", handler.submit)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) submit(c *gin.Context) {
	id := c.Param("id")
	if !ValidID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	meta, err := h.service.Submit(c.Request.Context(), SubmitInput{
		ID:            id,
		ContentLength: c.Request.ContentLength,
		Token:         c.GetHeader("X-Turnstile-Token"),
		TitleRaw:      c.GetHeader("X-Report-Title"),
		SummaryRaw:    c.GetHeader("X-Report-Summary"),
		ExtraInfoRaw:  c.GetHeader("X-Report-System-Info"),
		TypeRaw:       c.GetHeader("X-Report-Type"),
		IP:            c.ClientIP(),
		Body:          c.Request.Body,
	})
	if err != nil {
		status, reason, message := classifyError(err)
		metrics.SubmissionsRejected.WithLabelValues(reason).Inc()
		c.JSON(status, gin.H{"error": message})
		return
	}

	metrics.SubmissionsAccepted.Inc()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "report_id": meta.ID})
}

func classifyError(err error) (status int, reason, message string) {
	var quota *QuotaError
	switch {
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large", "Report too large (max 30MB)"
	case errors.Is(err, ErrMissingToken):
		return http.StatusForbidden, "missing_token", "Missing Turnstile token"
	case errors.Is(err, ErrVerificationFailed):
		return http.StatusForbidden, "verification_failed", "Turnstile verification failed"
	case errors.As(err, &quota):
		return http.StatusTooManyRequests, "quota", quota.Message
	case errors.Is(err, ErrInvalidTitle):
		return http.StatusBadRequest, "invalid_title", "Title must be 2-200 characters"
	case errors.Is(err, ErrEmptyBody):
		return http.StatusBadRequest, "empty_body", "Empty report body"
	default:
		return http.StatusInternalServerError, "internal", "Failed to store report"
	}
}
