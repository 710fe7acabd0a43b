package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashlog/config"
	"cashlog/database"
	"cashlog/logging"
	"cashlog/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode},
		Database:  config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		Assistant: config.AssistantConfig{Currency: "FCFA", ListLimit: 50},
	}

	old := database.DB
	require.NoError(t, database.Init(cfg, logging.Discard()))
	t.Cleanup(func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = old
	})

	middleware.InitJWT(cfg)
	return SetupRouter(cfg, logging.Discard(), nil)
}

func call(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = new(bytes.Buffer)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndCORS(t *testing.T) {
	r := setupTestRouter(t)

	w := call(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)

	w = call(r, http.MethodOptions, "/api/v1/expenses", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t)

	for _, path := range []string{"/api/v1/budgets", "/api/v1/expenses", "/api/v1/admin/users", "/api/v1/auth/profile"} {
		w := call(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := call(r, http.MethodPost, "/api/v1/assistant", "", `{"message":"total"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBudgetExpenseAssistantFlow(t *testing.T) {
	r := setupTestRouter(t)

	w := call(r, http.MethodPost, "/api/v1/auth/register", "", `{"email":"ada@example.com","name":"Ada","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	token := registered.Data.Token
	require.NotEmpty(t, token)

	w = call(r, http.MethodPost, "/api/v1/budgets", token, `{"label":"Food","start_date":"2025-10-01","end_date":"2025-10-31","amount":"100000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodPost, "/api/v1/expenses", token, `{"expense_date":"2025-10-15","description":"Groceries","amount":"60000","budget_id":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(r, http.MethodPost, "/api/v1/expenses", token, `{"expense_date":"2025-10-16","description":"Taxi","amount":"2500"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/api/v1/budgets/1", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		Data struct {
			Spent  decimal.Decimal `json:"spent"`
			Status string          `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, summary.Data.Spent.Equal(decimal.NewFromInt(60000)), summary.Data.Spent.String())
	assert.Equal(t, "OK", summary.Data.Status)

	w = call(r, http.MethodPost, "/api/v1/assistant", token, `{"message":"total on 2025-10-15"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var reply struct {
		Reply string            `json:"reply"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Total spent on 2025-10-15: **60 000,00** FCFA.", reply.Reply)
	assert.Empty(t, reply.Items)

	w = call(r, http.MethodGet, "/api/v1/expenses?start=2025-10-01&end=2025-10-31", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)

	// 普通用户不能访问管理接口
	w = call(r, http.MethodGet, "/api/v1/admin/users", token, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
