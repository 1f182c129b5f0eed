package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

func roleContext(method, role string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(method, "/v1/events", nil), httptest.NewRecorder())
	if role != "" {
		c.Set(ContextRole, role)
	}
	return c
}

func TestRBAC_CarrierPushesEvents(t *testing.T) {
	called := false
	handler := RBAC(domain.RoleCarrier, domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusAccepted)
	})

	if err := handler(roleContext(http.MethodPost, domain.RoleCarrier)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatal("next handler not called")
	}
}

func TestRBAC_Refusals(t *testing.T) {
	tests := []struct {
		name string
		role string
	}{
		{"carrier on an admin route", domain.RoleCarrier},
		{"unknown role", "customer"},
		{"no role", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
				t.Fatal("should not reach next handler")
				return nil
			})

			err := handler(roleContext(http.MethodPut, tt.role))
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("err = %v, want ErrForbidden", err)
			}
		})
	}
}
