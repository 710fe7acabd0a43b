package api

import (
	"os"
	"testing"
	"time"

	"cashlog/config"
	"cashlog/database"
	"cashlog/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var userColumns = []string{"id", "email", "name", "password", "is_admin", "is_active", "created_at", "updated_at"}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Mode: "debug"},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Assistant: config.AssistantConfig{Currency: "FCFA", ListLimit: 50},
	}
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	middleware.InitJWT(testConfig())

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	}
}
