package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiere-app/stylist-server/internal/storage"
	"github.com/lumiere-app/stylist-server/internal/stylist"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockStylist is a test double for the pipeline surface.
type mockStylist struct {
	AnalyzeItemFunc  func(ctx context.Context, image []byte) (*stylist.AnalysisResult, error)
	ContinueChatFunc func(ctx context.Context, message string, image []byte, history []stylist.Turn) (*stylist.ChatTurnResult, error)
}

func (m *mockStylist) AnalyzeItem(ctx context.Context, image []byte) (*stylist.AnalysisResult, error) {
	if m.AnalyzeItemFunc != nil {
		return m.AnalyzeItemFunc(ctx, image)
	}
	return &stylist.AnalysisResult{Recommendations: []stylist.Recommendation{}}, nil
}

func (m *mockStylist) ContinueChat(ctx context.Context, message string, image []byte, history []stylist.Turn) (*stylist.ChatTurnResult, error) {
	if m.ContinueChatFunc != nil {
		return m.ContinueChatFunc(ctx, message, image, history)
	}
	return &stylist.ChatTurnResult{Text: "ok", Recommendations: []stylist.Recommendation{}}, nil
}

type mockFetcher struct {
	FetchFunc func(ctx context.Context, rawURL string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, rawURL)
	}
	return []byte("fetched"), nil
}

func newTestServer(t *testing.T, sty Stylist, fetcher ImageFetcher) (*gin.Engine, storage.Store) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	if sty == nil {
		sty = &mockStylist{}
	}
	if fetcher == nil {
		fetcher = &mockFetcher{}
	}
	return New(store, sty, fetcher, "").Router(), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t, nil, nil)
	w := doJSON(t, router, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWardrobeRoundtrip(t *testing.T) {
	router, _ := newTestServer(t, nil, nil)

	w := doJSON(t, router, http.MethodGet, "/api/wardrobe", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	insert := map[string]any{
		"image_data": "data:image/jpeg;base64,Zm9v",
		"analysis":   map[string]any{"color": "red", "pattern": "solid", "style": "casual", "category": "Skirt", "description": "a red skirt"},
		"recommendations": []map[string]any{
			{"name": "White Top", "category": "Top", "platform": "Myntra",
				"purchaseUrl": "https://www.myntra.com/search?q=White+Top+Top", "imageUrl": "https://picsum.photos/seed/White%20Top/400/400", "matchScore": 90},
		},
	}
	w = doJSON(t, router, http.MethodPost, "/api/wardrobe", insert)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Positive(t, created.ID)

	w = doJSON(t, router, http.MethodGet, "/api/wardrobe", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []storage.WardrobeEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "red", entries[0].Analysis.Color)
	require.Len(t, entries[0].Recommendations, 1)
	assert.Equal(t, "White Top", entries[0].Recommendations[0].Name)
}

func TestChatHistoryRoundtrip(t *testing.T) {
	router, _ := newTestServer(t, nil, nil)

	w := doJSON(t, router, http.MethodPost, "/api/chat", map[string]string{"role": "user", "content": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/chat", map[string]string{"role": "assistant", "content": "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []storage.ChatMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
}

func TestChatRejectsIncompleteMessage(t *testing.T) {
	router, _ := newTestServer(t, nil, nil)
	w := doJSON(t, router, http.MethodPost, "/api/chat", map[string]string{"role": "user"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeItem(t *testing.T) {
	imageB64 := base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	t.Run("success decodes inline image", func(t *testing.T) {
		var gotImage []byte
		sty := &mockStylist{
			AnalyzeItemFunc: func(ctx context.Context, image []byte) (*stylist.AnalysisResult, error) {
				gotImage = image
				return &stylist.AnalysisResult{
					Analysis:        stylist.FashionAnalysis{Category: "Jacket"},
					Recommendations: []stylist.Recommendation{},
				}, nil
			},
		}
		router, _ := newTestServer(t, sty, nil)

		w := doJSON(t, router, http.MethodPost, "/api/analyze",
			map[string]string{"image_data": "data:image/jpeg;base64," + imageB64})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte("jpeg-bytes"), gotImage)

		var result stylist.AnalysisResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "Jacket", result.Analysis.Category)
	})

	t.Run("quota exhaustion maps to 429", func(t *testing.T) {
		sty := &mockStylist{
			AnalyzeItemFunc: func(ctx context.Context, image []byte) (*stylist.AnalysisResult, error) {
				return nil, stylist.ErrStylingQuotaExceeded
			},
		}
		router, _ := newTestServer(t, sty, nil)

		w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]string{"image_data": imageB64})
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "STYLING_QUOTA_EXCEEDED")
	})

	t.Run("generic failure maps to 502", func(t *testing.T) {
		sty := &mockStylist{
			AnalyzeItemFunc: func(ctx context.Context, image []byte) (*stylist.AnalysisResult, error) {
				return nil, errors.New("model unavailable")
			},
		}
		router, _ := newTestServer(t, sty, nil)

		w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]string{"image_data": imageB64})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "ANALYSIS_FAILED")
	})

	t.Run("remote image url is fetched", func(t *testing.T) {
		fetcher := &mockFetcher{
			FetchFunc: func(ctx context.Context, rawURL string) ([]byte, error) {
				assert.Equal(t, "https://img.example.net/a.jpg", rawURL)
				return []byte("remote-bytes"), nil
			},
		}
		var gotImage []byte
		sty := &mockStylist{
			AnalyzeItemFunc: func(ctx context.Context, image []byte) (*stylist.AnalysisResult, error) {
				gotImage = image
				return &stylist.AnalysisResult{Recommendations: []stylist.Recommendation{}}, nil
			},
		}
		router, _ := newTestServer(t, sty, fetcher)

		w := doJSON(t, router, http.MethodPost, "/api/analyze",
			map[string]string{"image_url": "https://img.example.net/a.jpg"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []byte("remote-bytes"), gotImage)
	})

	t.Run("missing image is a 400", func(t *testing.T) {
		router, _ := newTestServer(t, nil, nil)
		w := doJSON(t, router, http.MethodPost, "/api/analyze", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStylistChat(t *testing.T) {
	t.Run("passes message and history through", func(t *testing.T) {
		sty := &mockStylist{
			ContinueChatFunc: func(ctx context.Context, message string, image []byte, history []stylist.Turn) (*stylist.ChatTurnResult, error) {
				assert.Equal(t, "what shoes?", message)
				require.Len(t, history, 2)
				assert.Equal(t, "assistant", history[1].Role)
				return &stylist.ChatTurnResult{Text: "loafers", Recommendations: []stylist.Recommendation{}}, nil
			},
		}
		router, _ := newTestServer(t, sty, nil)

		w := doJSON(t, router, http.MethodPost, "/api/stylist", map[string]any{
			"message": "what shoes?",
			"history": []map[string]string{
				{"role": "user", "content": "hi"},
				{"role": "assistant", "content": "hello"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var result stylist.ChatTurnResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "loafers", result.Text)
	})

	t.Run("missing message is a 400", func(t *testing.T) {
		router, _ := newTestServer(t, nil, nil)
		w := doJSON(t, router, http.MethodPost, "/api/stylist", map[string]any{"history": []any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("pipeline failure maps to 502", func(t *testing.T) {
		sty := &mockStylist{
			ContinueChatFunc: func(ctx context.Context, message string, image []byte, history []stylist.Turn) (*stylist.ChatTurnResult, error) {
				return nil, errors.New("boom")
			},
		}
		router, _ := newTestServer(t, sty, nil)
		w := doJSON(t, router, http.MethodPost, "/api/stylist", map[string]any{"message": "hi"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
