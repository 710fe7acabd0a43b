package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "json", Output: &buf}).WithComponent(ComponentStorage)
	l.Debug("hidden")
	l.Info("hello", FieldUserID, 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, ComponentStorage, entry[FieldComponent])
	assert.Equal(t, float64(7), entry[FieldUserID])
	assert.Equal(t, ComponentStorage, l.Component())
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := New(Config{Format: "json", Output: &buf})

	router := gin.New()
	router.Use(GinMiddleware(l))
	router.GET("/missing", func(c *gin.Context) { c.Status(404) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/missing?x=1", nil))
	assert.Equal(t, 404, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/missing", entry[FieldPath])
	assert.Equal(t, "x=1", entry[FieldQuery])
	assert.Equal(t, float64(404), entry[FieldStatusCode])
}
