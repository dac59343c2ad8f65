package restaurant

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func formContext(t *testing.T, fields map[string]string) *gin.Context {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/boxes/create", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestBindCreateBoxForm(t *testing.T) {
	c := formContext(t, map[string]string{
		"title":       "Veggie Surprise Box",
		"description": "Chef's pick",
		"price":       "5.99",
		"quantity":    "4",
		"isHidden":    "true",
	})

	req, err := bindCreateBoxForm(c)
	if err != nil {
		t.Fatalf("bindCreateBoxForm: %v", err)
	}

	if req.Title != "Veggie Surprise Box" {
		t.Errorf("unexpected title %q", req.Title)
	}
	if req.Description == nil || *req.Description != "Chef's pick" {
		t.Errorf("unexpected description %v", req.Description)
	}
	if req.Price != 5.99 {
		t.Errorf("unexpected price %v", req.Price)
	}
	if req.Quantity != 4 {
		t.Errorf("unexpected quantity %d", req.Quantity)
	}
	if !req.IsHidden {
		t.Error("expected isHidden to parse as true")
	}
}

func TestBindCreateBoxFormDefaults(t *testing.T) {
	c := formContext(t, map[string]string{
		"title": "Soup Box",
		"price": "4.50",
	})

	req, err := bindCreateBoxForm(c)
	if err != nil {
		t.Fatalf("bindCreateBoxForm: %v", err)
	}
	if req.Quantity != 0 || req.IsHidden || req.Description != nil {
		t.Errorf("expected zero-value defaults, got %+v", req)
	}
}

func TestBindCreateBoxFormRejectsMissingFields(t *testing.T) {
	if _, err := bindCreateBoxForm(formContext(t, map[string]string{"title": "No Price"})); err == nil {
		t.Error("expected error for missing price")
	}
	if _, err := bindCreateBoxForm(formContext(t, map[string]string{"price": "5.00"})); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := bindCreateBoxForm(formContext(t, map[string]string{
		"title":    "Bad Quantity",
		"price":    "5.00",
		"quantity": "lots",
	})); err == nil {
		t.Error("expected error for non-numeric quantity")
	}
}
