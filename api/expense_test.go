package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expenseColumns = []string{"id", "user_id", "expense_date", "description", "amount", "budget_id", "created_at", "updated_at"}

func expenseRouter(userID uint) *gin.Engine {
	h := NewExpenseHandler(nil, nil)
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.POST("/expenses", h.Create)
	router.GET("/expenses", h.List)
	router.GET("/expenses/:id", h.Get)
	router.PUT("/expenses/:id", h.Update)
	router.DELETE("/expenses/:id", h.Delete)
	return router
}

func TestExpenseHandler_Create(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `budgets` WHERE id = \\? AND user_id = \\?").
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	router := expenseRouter(1)
	w := postJSON(router, "/expenses", `{"expense_date":"2025-10-15","description":"Taxi","amount":"2500","budget_id":3}`)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			ID          uint   `json:"id"`
			UserID      uint   `json:"user_id"`
			Description string `json:"description"`
			BudgetID    *uint  `json:"budget_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(9), resp.Data.ID)
	assert.Equal(t, uint(1), resp.Data.UserID)
	require.NotNil(t, resp.Data.BudgetID)
	assert.Equal(t, uint(3), *resp.Data.BudgetID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_ForeignBudget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `budgets`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	router := expenseRouter(2)
	w := postJSON(router, "/expenses", `{"expense_date":"2025-10-15","description":"Taxi","amount":"2500","budget_id":3}`)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "budget not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_Invalid(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := expenseRouter(1)
	for _, body := range []string{
		`{"expense_date":"2025-10-15","description":"Taxi","amount":"-5"}`,
		`{"expense_date":"15/10/2025","description":"Taxi","amount":"5"}`,
		`{"expense_date":"2025-10-15","amount":"5"}`,
	} {
		w := postJSON(router, "/expenses", body)
		assert.Equal(t, 400, w.Code, body)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses` WHERE expenses.user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE expenses.user_id = \\?.*ORDER BY expenses.expense_date DESC, expenses.id DESC").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(9, 1, day, "Taxi", "2500.00", nil, time.Now(), time.Now()))

	router := expenseRouter(1)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/expenses?start=2025-10-01&end=2025-10-31&q=taxi&page=1&page_size=5", nil))

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			Total    int64 `json:"total"`
			PageSize int   `json:"page_size"`
			List     []struct {
				Date        time.Time `json:"expense_date"`
				Description string    `json:"description"`
			} `json:"list"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.Total)
	assert.Equal(t, 5, resp.Data.PageSize)
	require.Len(t, resp.Data.List, 1)
	assert.Equal(t, "Taxi", resp.Data.List[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_BadQuery(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := expenseRouter(1)
	for _, path := range []string{
		"/expenses?start=2025-10-31&end=2025-10-01",
		"/expenses?date=yesterday",
		"/expenses?budget_id=-1",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, 400, w.Code, path)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Get_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE expenses.user_id = \\? AND expenses.id = \\?").
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	router := expenseRouter(2)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/expenses/9", nil))

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_ClearBudget(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT \\* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(9, 1, day, "Taxi", "2500.00", 3, time.Now(), time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := expenseRouter(1)
	req := httptest.NewRequest("PUT", "/expenses/9", bytes.NewBufferString(`{"clear_budget":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp struct {
		Data struct {
			BudgetID *uint `json:"budget_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.BudgetID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete_NotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `expenses` WHERE id = \\? AND user_id = \\?").
		WithArgs(9, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	router := expenseRouter(2)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/expenses/9", nil))

	assert.Equal(t, 404, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
