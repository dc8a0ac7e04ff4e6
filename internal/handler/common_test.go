package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func claimContext(t *testing.T, claims map[string]any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	for k, v := range claims {
		c.Set(k, v)
	}
	return c, rec
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    uint64
		wantErr bool
	}{
		{name: "float64 claim", value: float64(42), want: 42},
		{name: "string claim", value: "42", want: 42},
		{name: "uint64 claim", value: uint64(42), want: 42},
		{name: "missing claim", value: nil, wantErr: true},
		{name: "garbage string", value: "forty-two", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := claimContext(t, map[string]any{"user_id": tt.value})
			got, err := getUserID(c)
			if tt.wantErr {
				if err == nil {
					t.Errorf("getUserID(%v) = %d, want error", tt.value, got)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("getUserID(%v) = %d, %v, want %d", tt.value, got, err, tt.want)
			}
		})
	}
}

func TestMeNormalizesSubjectClaim(t *testing.T) {
	h := &AuthHandler{}

	// JWT parsing leaves numeric claims as float64 in context
	c, rec := claimContext(t, map[string]any{"user_id": float64(7), "role": "MEMBER", "org_id": "org-1"})
	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		UserID uint64 `json:"user_id"`
		Role   string `json:"role"`
		OrgID  string `json:"org_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.UserID != 7 || resp.Role != "MEMBER" || resp.OrgID != "org-1" {
		t.Errorf("Me response = %+v", resp)
	}

	c, rec = claimContext(t, nil)
	_ = h.Me(c)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Me without subject = %d, want 401", rec.Code)
	}
}
