package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqueup/assistant-api/config"
	"github.com/torqueup/assistant-api/internal/domain/entity"
	"github.com/torqueup/assistant-api/internal/infrastructure/storage"
	"github.com/torqueup/assistant-api/internal/usecase"
)

type stubAI struct {
	reply string
	err   error
}

func (s *stubAI) GenerateReply(ctx context.Context, prompt string, history []entity.Message) (string, error) {
	return s.reply, s.err
}

func newTestServer(t *testing.T, ai *stubAI) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ServiceName:     "assistant-api",
		Environment:     "test",
		HTTPPort:        8080,
		ShutdownTimeout: time.Second,
		AdminToken:      "sesame",
		MaxContextSize:  20,
		MaxHistoryTurns: 10,
	}

	vehicleRepo := storage.NewMemoryVehicleRepository()
	partRepo := storage.NewMemoryPartRepository()
	profileRepo := storage.NewMemoryProfileRepository()
	chatRepo := storage.NewMemoryChatRepository(cfg.MaxContextSize)
	auditRepo := storage.NewMemoryAuditRepository()

	require.NoError(t, partRepo.SaveMany(context.Background(), []entity.Part{
		{ID: "p1", Title: "Brake pads front", Price: 45, SellerID: "u1"},
	}))
	require.NoError(t, profileRepo.SaveMany(context.Background(), []entity.SellerProfile{
		{ID: "u1", Username: "partsdepot"},
	}))

	listingUC := usecase.NewListingUseCase(vehicleRepo, partRepo)
	chatUC := usecase.NewChatUseCase(ai, chatRepo, listingUC, partRepo, profileRepo, zerolog.Nop())
	catalogUC := usecase.NewCatalogUseCase(vehicleRepo, nil, auditRepo, zerolog.Nop())

	return New(cfg, zerolog.Nop(), chatUC, listingUC, catalogUC)
}

func postChat(t *testing.T, srv *Server, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/gemini-chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestChatPlainReply(t *testing.T) {
	srv := newTestServer(t, &stubAI{reply: "Hello there!"})

	w := postChat(t, srv, map[string]any{"message": "hi"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Response        string          `json:"response"`
		Recommendations json.RawMessage `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Hello there!", resp.Response)
	assert.Nil(t, resp.Recommendations)
}

func TestChatCarsRecommendations(t *testing.T) {
	srv := newTestServer(t, &stubAI{reply: "Take a look. [RECOMMEND_CARS]"})

	cars := []map[string]any{
		{"id": "v1", "make": "Toyota", "model": "Corolla", "price": 12000, "body_style": "sedan"},
		{"id": "v2", "make": "Honda", "model": "Civic", "price": 16000, "body_style": "sedan"},
	}
	w := postChat(t, srv, map[string]any{
		"message": "I want a toyota",
		"cars":    cars,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Response        string `json:"response"`
		Recommendations *struct {
			Type  string           `json:"type"`
			Items []entity.Vehicle `json:"items"`
			Title string           `json:"title"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Take a look. ", resp.Response)
	require.NotNil(t, resp.Recommendations)
	assert.Equal(t, "cars", resp.Recommendations.Type)
	assert.Equal(t, "Perfect Cars for You", resp.Recommendations.Title)
	require.Len(t, resp.Recommendations.Items, 1)
	assert.Equal(t, "v1", resp.Recommendations.Items[0].ID)
}

func TestChatPartsRecommendations(t *testing.T) {
	srv := newTestServer(t, &stubAI{reply: "We have those. [RECOMMEND_PARTS:brakes]"})

	w := postChat(t, srv, map[string]any{"message": "need new brakes"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendations *struct {
			Type  string        `json:"type"`
			Items []entity.Part `json:"items"`
			Title string        `json:"title"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Recommendations)
	assert.Equal(t, "parts", resp.Recommendations.Type)
	require.Len(t, resp.Recommendations.Items, 1)
	assert.Equal(t, "partsdepot", resp.Recommendations.Items[0].Seller)
}

func TestChatEmptyMessageRejected(t *testing.T) {
	srv := newTestServer(t, &stubAI{reply: "unused"})

	w := postChat(t, srv, map[string]any{"message": "   "})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestChatUpstreamErrorIs500(t *testing.T) {
	srv := newTestServer(t, &stubAI{err: errors.New("quota exceeded")})

	w := postChat(t, srv, map[string]any{"message": "hi"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "quota exceeded")
}

func TestPreflightAllowsAnyOrigin(t *testing.T) {
	srv := newTestServer(t, &stubAI{})

	req := httptest.NewRequest(http.MethodOptions, "/gemini-chat", nil)
	req.Header.Set("Origin", "https://shop.example")
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, &stubAI{})

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/imports", nil)
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/admin/imports", nil)
	req.Header.Set("X-Admin-Token", "sesame")
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, &stubAI{})

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		srv.Engine().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestChatHistoryRoundTrip(t *testing.T) {
	srv := newTestServer(t, &stubAI{reply: "Hi!"})

	w := postChat(t, srv, map[string]any{"message": "hello"})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history", nil)
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)

	req = httptest.NewRequest(http.MethodDelete, "/v1/chat/history", nil)
	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
