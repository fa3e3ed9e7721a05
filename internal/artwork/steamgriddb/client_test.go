package steamgriddb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"steamsyncer/internal/artwork/steamgriddb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := steamgriddb.New(" ", "https://example.com"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchAutocompleteSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if r.URL.Path != "/search/autocomplete/Hollow Knight" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":42,"name":"Hollow Knight"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := steamgriddb.New("key", server.URL+"/")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	games, err := client.SearchAutocomplete(context.Background(), "Hollow Knight")
	if err != nil {
		t.Fatalf("SearchAutocomplete returned error: %v", err)
	}
	if len(games) != 1 || games[0].ID != 42 {
		t.Fatalf("unexpected games: %#v", games)
	}
}

func TestGridsPassesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/grids/game/42" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("dimensions"); got != "600x900" {
			t.Errorf("unexpected dimensions %q", got)
		}
		if got := r.URL.Query().Get("types"); got != "static" {
			t.Errorf("unexpected types %q", got)
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":1,"url":"https://cdn/x.png","mime":"image/png","width":600,"height":900}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := steamgriddb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	images, err := client.Grids(context.Background(), 42, steamgriddb.ImageQuery{
		Dimensions: []string{"600x900"},
		Types:      []string{"static"},
	})
	if err != nil {
		t.Fatalf("Grids returned error: %v", err)
	}
	if len(images) != 1 || images[0].Mime != "image/png" || images[0].Width != 600 {
		t.Fatalf("unexpected images: %#v", images)
	}
}

func TestUnsuccessfulEnvelopeIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"errors":["Game not found"]}`))
	}))
	t.Cleanup(server.Close)

	client, err := steamgriddb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Heroes(context.Background(), 7, steamgriddb.ImageQuery{}); err == nil {
		t.Fatal("expected error when success=false")
	}
}

func TestHTTPErrorIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client, err := steamgriddb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.SearchAutocomplete(context.Background(), "x")
	var statusErr *steamgriddb.StatusError
	if !errors.As(err, &statusErr) || !statusErr.Unauthorized() {
		t.Fatalf("expected unauthorized status error, got %v", err)
	}
	if _, err := client.Icons(context.Background(), 0, steamgriddb.ImageQuery{}); err == nil {
		t.Fatal("expected error for non-positive game id")
	}
}

func TestDownloadOmitsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("download should not carry the api token")
		}
		_, _ = w.Write([]byte("payload"))
	}))
	t.Cleanup(server.Close)

	client, err := steamgriddb.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	data, err := client.Download(context.Background(), server.URL+"/img.png")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected body %q", data)
	}
}
