package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://plain:8080", "http://secure:8443")

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https uses https proxy", "https://example.com/a", "http://secure:8443"},
		{"http uses http proxy", "http://example.com/a", "http://plain:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy returned error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("proxy = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewHTTPClient_FollowsRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/end", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(ClientOptions{Timeout: 5 * time.Second})
	resp, err := client.Get(server.URL + "/start")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.Request.URL.Path != "/end" {
		t.Errorf("final path = %s, want /end", resp.Request.URL.Path)
	}
}
