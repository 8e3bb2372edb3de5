package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteReadDelete(t *testing.T) {
	type seen struct {
		method, path, auth string
		body               map[string]any
	}
	var got []seen

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := seen{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&s.body)
		}
		got = append(got, s)

		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documents": []Document{{ID: "d1", Data: json.RawMessage(`{"title":"x"}`)}},
			})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, func() string { return "tok" })
	ctx := context.Background()

	if err := c.Write(ctx, "users/u1/calendar", "d1", map[string]string{"title": "x"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	docs, err := c.ReadAll(ctx, "users/u1/calendar")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "d1" {
		t.Errorf("docs = %+v; want one d1", docs)
	}
	if err := c.Delete(ctx, "users/u1/calendar", "d1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	wantPaths := []string{
		"/api/users/u1/calendar/d1",
		"/api/users/u1/calendar",
		"/api/users/u1/calendar/d1",
	}
	if len(got) != len(wantPaths) {
		t.Fatalf("requests = %d; want %d", len(got), len(wantPaths))
	}
	for i, w := range wantPaths {
		if got[i].path != w {
			t.Errorf("request %d path = %q; want %q", i, got[i].path, w)
		}
		if got[i].auth != "Bearer tok" {
			t.Errorf("request %d auth = %q; want bearer token", i, got[i].auth)
		}
	}
}

func TestErrorStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL, nil)
	if err := c.Write(context.Background(), "users/u1/calendar", "d1", map[string]string{}); err == nil {
		t.Error("expected error on 500 response")
	}
	if _, err := c.ReadAll(context.Background(), "users/u1/calendar"); err == nil {
		t.Error("expected error on 500 response")
	}
}
