package openstreetmap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tempcast/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Search(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantHTTPErr bool
		wantCount   int
	}{
		{
			name:      "single match",
			status:    http.StatusOK,
			body:      `[{"place_id":1,"lat":"51.5073219","lon":"-0.1276474","display_name":"London, Greater London, England, United Kingdom"}]`,
			wantCount: 1,
		},
		{
			name:      "no match",
			status:    http.StatusOK,
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:        "server error",
			status:      http.StatusForbidden,
			body:        `blocked`,
			wantErr:     true,
			wantHTTPErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"not":"a list"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReq *http.Request
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotReq = r
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(testLogger(),
				WithBaseURL(srv.URL+"/search"),
				WithUserAgent("tempcast-test"),
				WithRateLimit(1000),
			)

			results, err := client.Search(context.Background(), "London, England")

			require.NotNil(t, gotReq)
			assert.Equal(t, "/search", gotReq.URL.Path)
			assert.Equal(t, "London, England", gotReq.URL.Query().Get("q"))
			assert.Equal(t, "json", gotReq.URL.Query().Get("format"))
			assert.Equal(t, "1", gotReq.URL.Query().Get("limit"))
			assert.Equal(t, "tempcast-test", gotReq.Header.Get("User-Agent"))

			if tt.wantErr {
				require.Error(t, err)
				var httpErr *types.HTTPError
				assert.Equal(t, tt.wantHTTPErr, errors.As(err, &httpErr))
				if tt.wantHTTPErr {
					assert.Equal(t, tt.status, httpErr.StatusCode)
					assert.Equal(t, tt.body, httpErr.Body)
				}
				return
			}

			require.NoError(t, err)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestClient_Search_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}))
	defer srv.Close()

	client := NewClient(testLogger(), WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, "London")
	assert.Error(t, err)
}
