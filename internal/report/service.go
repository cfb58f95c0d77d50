package report

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/openakita/feedback-gateway/internal/config"
	"github.com/openakita/feedback-gateway/internal/ratelimit"
)

const (
	minTitleLen = 2
	maxTitleLen = 200
	maxTextLen  = 2000
)

// Verifier asserts that a submitted token proves a non-automated origin.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

// RateLimiter enforces the daily per-scope quotas.
type RateLimiter interface {
	Allow(ctx context.Context, scopes []ratelimit.Scope) (*ratelimit.Scope, error)
}

// Notifier dispatches a best-effort email for an accepted report.
type Notifier interface {
	Send(ctx context.Context, reportID, typeLabel, title, body string) error
}

type reportWriter interface {
	Put(ctx context.Context, meta Metadata, payload []byte) error
}

// SubmitInput carries the raw submission as observed at the edge. Title,
// summary and extra info arrive percent-encoded in headers to survive
// non-ASCII content.
type SubmitInput struct {
	ID            string
	ContentLength int64
	Token         string
	TitleRaw      string
	SummaryRaw    string
	ExtraInfoRaw  string
	TypeRaw       string
	IP            string
	Body          io.Reader
}

// Service runs the submission pipeline: size check, verification, rate
// limiting, header validation, body read, persistence, notification.
// The stage order is load-bearing: each stage is more expensive than the
// last, and quota must not be consumed by a request that fails
// verification.
type Service struct {
	store    reportWriter
	verifier Verifier
	limiter  RateLimiter
	notifier Notifier
	limits   config.LimitsConfig
	log      *zap.Logger
}

// NewService constructs a submission service.
func NewService(store reportWriter, verifier Verifier, limiter RateLimiter, notifier Notifier, limits config.LimitsConfig, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		verifier: verifier,
		limiter:  limiter,
		notifier: notifier,
		limits:   limits,
		log:      log,
	}
}

// Submit validates and persists one report. On success the stored
// metadata is returned; the caller echoes its ID back to the client.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Metadata, error) {
	if in.ContentLength > s.limits.MaxReportSize {
		return Metadata{}, ErrTooLarge
	}

	if in.Token == "" {
		return Metadata{}, ErrMissingToken
	}
	ok, err := s.verifier.Verify(ctx, in.Token, in.IP)
	if err != nil {
		return Metadata{}, fmt.Errorf("verify token: %w", err)
	}
	if !ok {
		return Metadata{}, ErrVerificationFailed
	}

	day := ratelimit.Day(time.Now())
	scopes := []ratelimit.Scope{
		ratelimit.IPScope(in.IP, day, s.limits.IPDailyLimit),
		ratelimit.GlobalScope(day, s.limits.GlobalDailyLimit),
	}
	violated, err := s.limiter.Allow(ctx, scopes)
	if err != nil {
		return Metadata{}, fmt.Errorf("rate limit: %w", err)
	}
	if violated != nil {
		return Metadata{}, &QuotaError{Message: violated.Message}
	}

	title := safeDecode(in.TitleRaw)
	if n := len([]rune(title)); n < minTitleLen || n > maxTitleLen {
		return Metadata{}, ErrInvalidTitle
	}

	payload, err := io.ReadAll(io.LimitReader(in.Body, s.limits.MaxReportSize+1))
	if err != nil {
		return Metadata{}, fmt.Errorf("read body: %w", err)
	}
	if len(payload) == 0 {
		return Metadata{}, ErrEmptyBody
	}
	if int64(len(payload)) > s.limits.MaxReportSize {
		return Metadata{}, ErrTooLarge
	}

	meta := Metadata{
		ID:        in.ID,
		Type:      normalizeType(in.TypeRaw),
		Title:     title,
		Summary:   truncate(safeDecode(in.SummaryRaw), maxTextLen),
		ExtraInfo: truncate(safeDecode(in.ExtraInfoRaw), maxTextLen),
		IP:        in.IP,
		CreatedAt: time.Now().UTC(),
		SizeBytes: int64(len(payload)),
	}

	if err := s.store.Put(ctx, meta, payload); err != nil {
		return Metadata{}, fmt.Errorf("persist report: %w", err)
	}

	// The report is durable; notification failure must not surface.
	if err := s.notifier.Send(ctx, meta.ID, typeLabel(meta.Type), meta.Title, emailBody(meta)); err != nil {
		s.log.Warn("report notification failed",
			zap.String("report_id", meta.ID),
			zap.Error(err))
	}

	return meta, nil
}

func normalizeType(raw string) string {
	if raw == TypeFeature {
		return TypeFeature
	}
	return TypeBug
}

func typeLabel(reportType string) string {
	if reportType == TypeFeature {
		return "Feature Request"
	}
	return "Bug Report"
}

func emailBody(meta Metadata) string {
	infoLabel := "System Info"
	if meta.Type == TypeFeature {
		infoLabel = "Contact"
	}

	summary := meta.Summary
	if summary == "" {
		summary = "(No description)"
	}

	return fmt.Sprintf("%s\n\n--- %s ---\n%s", summary, infoLabel, meta.ExtraInfo)
}

// safeDecode percent-decodes a header value, tolerating malformed input
// by falling back to the raw string.
func safeDecode(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
