package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintain_ai/backend/internal/models"
)

func geminiServer(t *testing.T, status int, text string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 300 {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": status, "message": "denied", "status": "PERMISSION_DENIED"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
			}},
		})
	}))
}

func TestGeminiAdapterAnalyze(t *testing.T) {
	var captured map[string]any
	srv := geminiServer(t, http.StatusOK,
		`{"domain":"Infrastructure & Road Safety","severity":"critical","confidence":0.97,"reasoning":"Deep pothole."}`,
		&captured)
	defer srv.Close()

	g := GeminiAdapter{BaseURL: srv.URL, APIKey: "test-key"}
	got, err := g.Analyze(context.Background(), Request{
		Description: "Pothole on MG Road",
		Image:       &Image{MIMEType: "image/webp", Data: []byte("img")},
	})
	require.NoError(t, err)

	assert.Equal(t, models.CategoryRoadsTransport, got.Category)
	assert.Equal(t, models.SeverityCritical, got.Severity)
	assert.Equal(t, 0.97, got.Confidence)

	contents, ok := captured["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	inline, ok := parts[0].(map[string]any)["inlineData"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "image/webp", inline["mimeType"])
	assert.Contains(t, parts[1].(map[string]any)["text"], "Pothole on MG Road")

	genCfg, ok := captured["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
}

func TestGeminiAdapterWithoutKey(t *testing.T) {
	_, err := GeminiAdapter{}.Analyze(context.Background(), Request{Description: "x"})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestGeminiAdapterHTTPError(t *testing.T) {
	srv := geminiServer(t, http.StatusForbidden, "", nil)
	defer srv.Close()

	_, err := GeminiAdapter{BaseURL: srv.URL, APIKey: "test-key"}.Analyze(context.Background(), Request{Description: "x"})
	assert.Error(t, err)
}

func TestGeminiAdapterInvalidBody(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"domain":"Plumbing"}`, nil)
	defer srv.Close()

	_, err := GeminiAdapter{BaseURL: srv.URL, APIKey: "test-key"}.Analyze(context.Background(), Request{Description: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
