package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func adminRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", AdminAuth("secret", "messapp"), func(c *gin.Context) {
		claims, ok := AdminClaims(c)
		if !ok {
			t.Fatal("claims missing after auth")
		}
		c.JSON(http.StatusOK, gin.H{"mess": claims.MessName})
	})
	return r
}

func TestAdminAuthMissingToken(t *testing.T) {
	r := adminRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAdminAuthInvalidToken(t *testing.T) {
	r := adminRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAdminAuthRejectsNonAdminRole(t *testing.T) {
	token, _, err := Issue("u1", "student", "MegaMess", "messapp", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := adminRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestAdminAuthAccepts(t *testing.T) {
	token, _, err := Issue("a1", "admin", "MegaMess", "messapp", "secret", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	r := adminRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}
