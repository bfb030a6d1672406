package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/formatlab/sacfit/internal/report"
)

func postCurve(t *testing.T, body any) *httptest.ResponseRecorder {
	t.Helper()
	s := New(":0", newTestLogger())

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", "/api/v1/curve", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleCurve(t *testing.T) {
	rec := postCurve(t, curveRequest{
		Sets: map[string][]string{
			"alpha": {"avi", "bmp", "css", "doc", "eps", "flv", "gif"},
			"beta":  {"avi", "mkv", "mov", "mp4"},
		},
		Fit: &curveFitOptions{Steps: 10},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var curve report.CurveJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &curve); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(curve.Records) != 2 {
		t.Errorf("got %d records, want 2", len(curve.Records))
	}
	if curve.Records[0].Source != "alpha" {
		t.Errorf("first source = %q, want alpha (largest first)", curve.Records[0].Source)
	}
	if len(curve.Fit.XSamples) != 10 {
		t.Errorf("got %d fit samples, want 10", len(curve.Fit.XSamples))
	}
}

func TestHandleCurveErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
		want int
	}{
		{"empty sets", curveRequest{Sets: map[string][]string{}}, http.StatusBadRequest},
		{"empty source", curveRequest{Sets: map[string][]string{"alpha": {}}}, http.StatusBadRequest},
		{"single source underdetermined", curveRequest{Sets: map[string][]string{"alpha": {"avi", "bmp"}}}, http.StatusUnprocessableEntity},
		{"malformed body", "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCurve(t, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	s := New(":0", newTestLogger())

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := New("127.0.0.1:0", newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("shutdown returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
