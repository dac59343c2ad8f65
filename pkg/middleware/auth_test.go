package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodbox_backend/pkg/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// guardedRouter builds a router whose /protected route is gated by the given
// middleware, recording whether the downstream handler ever ran.
func guardedRouter(handlerRan *bool, guards ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append(guards, func(c *gin.Context) {
		*handlerRan = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.POST("/protected", handlers...)
	return router
}

func asUser(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", models.User{ID: 1, Role: role})
	}
}

func TestAuthorizeRolesBlocksWrongRole(t *testing.T) {
	handlerRan := false
	router := guardedRouter(&handlerRan,
		asUser(models.RoleRestaurant),
		AuthorizeRoles(models.RoleCustomer),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))

	if handlerRan {
		t.Fatal("handler must not execute for a wrong-role user")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Count(body, "{") != 1 {
		t.Errorf("expected a single error envelope, got %q", body)
	}
}

func TestAuthorizeRolesAllowsMatchingRole(t *testing.T) {
	handlerRan := false
	router := guardedRouter(&handlerRan,
		asUser(models.RoleAdmin),
		AuthorizeRoles(models.RoleAdmin),
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))

	if !handlerRan {
		t.Fatal("handler should execute for a matching role")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthorizeRolesRequiresUser(t *testing.T) {
	handlerRan := false
	router := guardedRouter(&handlerRan, AuthorizeRoles(models.RoleCustomer))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))

	if handlerRan {
		t.Fatal("handler must not execute without an authenticated user")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestRestrictToCustomerBlocksMissingToken(t *testing.T) {
	handlerRan := false
	router := guardedRouter(&handlerRan, RestrictToCustomer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/protected", nil))

	if handlerRan {
		t.Fatal("handler must not execute without a token")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Count(body, "{") != 1 {
		t.Errorf("expected a single error envelope, got %q", body)
	}
}
