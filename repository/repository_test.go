package repository

import (
	"context"
	"testing"
	"time"

	"cashlog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func day(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

var budgetColumns = []string{"id", "user_id", "label", "start_date", "end_date", "amount", "created_at", "updated_at"}

func TestOwner_Writer(t *testing.T) {
	_, err := Everyone().writer()
	assert.ErrorIs(t, err, ErrNoOwner)

	_, err = Owner{}.writer()
	assert.ErrorIs(t, err, ErrNoOwner)

	id, err := ForUser(7).writer()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	assert.False(t, ForUser(7).IsEveryone())
	assert.True(t, Everyone().IsEveryone())
}

func TestPage_Normalize(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 10}, Page{}.Normalize())
	assert.Equal(t, Page{Number: 3, Size: 100}, Page{Number: 3, Size: 1000}.Normalize())
}

func TestEscapeLikeValue(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, escapeLikeValue(`50%_off\`))
}

func TestBudgetRepository_Create_Validation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)
	ctx := context.Background()

	err := repo.Create(ctx, ForUser(1), &models.Budget{
		Label: "bad", StartDate: day("2025-10-10"), EndDate: day("2025-10-01"), Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	err = repo.Create(ctx, ForUser(1), &models.Budget{
		Label: "bad", StartDate: day("2025-10-01"), EndDate: day("2025-10-31"), Amount: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	err = repo.Create(ctx, Everyone(), &models.Budget{Label: "x"})
	assert.ErrorIs(t, err, ErrNoOwner)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	b := &models.Budget{
		UserID:    99,
		Label:     "Groceries",
		StartDate: day("2025-10-01"),
		EndDate:   day("2025-10-31"),
		Amount:    decimal.NewFromInt(100000),
	}
	require.NoError(t, repo.Create(context.Background(), ForUser(1), b))
	assert.Equal(t, uint(5), b.ID)
	// 归属以 owner 为准
	assert.Equal(t, uint(1), b.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE budgets.user_id = \\? AND budgets.id = \\?").
		WillReturnRows(sqlmock.NewRows(budgetColumns))

	_, err := repo.Get(context.Background(), ForUser(2), 1)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Get_EveryoneHasNoUserScope(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE budgets.id = \\?").
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(1, 3, "Rent", day("2025-10-01"), day("2025-10-31"), "500.00", now, now))

	b, err := repo.Get(context.Background(), Everyone(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint(3), b.UserID)
	assert.True(t, decimal.NewFromInt(500).Equal(b.Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_FindByLabel(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE budgets.user_id = \\? ORDER BY budgets.start_date DESC, budgets.id DESC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(3, 1, "Rent November", day("2025-11-01"), day("2025-11-30"), "300.00", now, now).
			AddRow(2, 1, "Weekly GROCERIES", day("2025-10-06"), day("2025-10-12"), "50.00", now, now).
			AddRow(1, 1, "Groceries", day("2025-10-01"), day("2025-10-31"), "200.00", now, now))

	b, err := repo.FindByLabel(context.Background(), ForUser(1), "groceries")
	require.NoError(t, err)
	require.NotNil(t, b)
	// 多个匹配时取开始日期最晚的
	assert.Equal(t, uint(2), b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_FindByLabel_NoMatch(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows(budgetColumns))

	b, err := repo.FindByLabel(context.Background(), ForUser(1), "travel")
	require.NoError(t, err)
	assert.Nil(t, b)

	// 空标签不查询
	b, err = repo.FindByLabel(context.Background(), ForUser(1), "  ")
	require.NoError(t, err)
	assert.Nil(t, b)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_FindActive(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `budgets` WHERE budgets.user_id = \\? AND \\(budgets.start_date <= \\? AND budgets.end_date >= \\?\\) ORDER BY budgets.start_date DESC, budgets.id DESC").
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(4, 1, "October", day("2025-10-01"), day("2025-10-31"), "1000.00", now, now))

	b, err := repo.FindActive(context.Background(), ForUser(1), day("2025-10-15"))
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "October", b.Label)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Delete_UnlinksExpenses(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses` SET `budget_id`=\\?.* WHERE budget_id = \\? AND user_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `budgets` WHERE id = \\? AND user_id = \\?").
		WithArgs(4, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), ForUser(1), 4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Delete_NotOwned(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `expenses`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), ForUser(2), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetRepository_Summaries(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBudgetRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `budgets`").
		WillReturnRows(sqlmock.NewRows(budgetColumns).
			AddRow(2, 1, "Transport", day("2025-10-01"), day("2025-10-31"), "100.00", now, now).
			AddRow(1, 1, "Food", day("2025-10-01"), day("2025-10-31"), "200.00", now, now))
	mock.ExpectQuery("SELECT expenses.budget_id AS budget_id, COALESCE\\(SUM\\(expenses.amount\\), 0\\) AS spent FROM `expenses` WHERE expenses.user_id = \\? AND expenses.budget_id IN \\(\\?,\\?\\) GROUP BY .*budget_id").
		WithArgs(1, 2, 1).
		WillReturnRows(sqlmock.NewRows([]string{"budget_id", "spent"}).
			AddRow(2, "120.00"))

	summaries, err := repo.Summaries(context.Background(), ForUser(1), BudgetFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Transport", summaries[0].Label)
	assert.Equal(t, models.BudgetStatusExceeded, summaries[0].Status)
	assert.True(t, decimal.NewFromInt(-20).Equal(summaries[0].Remaining))

	// 没有关联消费的预算
	assert.Equal(t, models.BudgetStatusOK, summaries[1].Status)
	assert.True(t, summaries[1].Spent.IsZero())
	assert.True(t, decimal.NewFromInt(200).Equal(summaries[1].Remaining))
	require.NoError(t, mock.ExpectationsWereMet())
}
