package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		want         string
		wantErr      error
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"**Title:** Moss\n**Journal Entry:** Green hush."}}`,
			want:         "**Title:** Moss\n**Journal Entry:** Green hush.",
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      ports.ErrUpstreamRejected,
		},
		{
			name:         "Error field in body",
			status:       http.StatusOK,
			responseBody: `{"error":"model not loaded"}`,
			wantErr:      ports.ErrTransport,
		},
		{
			name:         "Malformed body",
			status:       http.StatusOK,
			responseBody: `{"message":`,
			wantErr:      ports.ErrTransport,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			got, err := client.Generate(context.Background(), "test prompt")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("content: got %q, want %q", got, tt.want)
			}
			if gotRequest.Model != DefaultModel {
				t.Fatalf("expected model %s, got %q", DefaultModel, gotRequest.Model)
			}
			if gotRequest.Stream {
				t.Fatalf("expected non-streaming request")
			}
			if gotRequest.Options.Temperature != defaultTemperature {
				t.Fatalf("expected temperature %v, got %v", defaultTemperature, gotRequest.Options.Temperature)
			}
			if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Role != "user" || gotRequest.Messages[0].Content != "test prompt" {
				t.Fatalf("user message mismatch: %+v", gotRequest.Messages)
			}
		})
	}
}

func TestClient_Generate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:1", "").Generate(ctx, "x")
	if !errors.Is(err, ports.ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
}
