package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newProtectedRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", Middleware(apiKey), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestMiddlewareAcceptsValidSecret(t *testing.T) {
	router := newProtectedRouter("s3cr3t")

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer s3cr3t")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid secret, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsBadCredentials(t *testing.T) {
	router := newProtectedRouter("s3cr3t")

	cases := map[string]string{
		"missing header": "",
		"wrong secret":   "Bearer nope",
		"not bearer":     "Basic s3cr3t",
		"empty token":    "Bearer ",
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestMiddlewareBearerPrefixIsCaseInsensitive(t *testing.T) {
	router := newProtectedRouter("s3cr3t")

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "bearer s3cr3t")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with lowercase scheme, got %d", rec.Code)
	}
}
