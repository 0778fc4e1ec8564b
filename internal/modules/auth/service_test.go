package auth

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/pkg/apperr"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestRegisterRequiresUsername(t *testing.T) {
	_, err := NewService(nil).Register(&RegisterDTO{Username: "   ", Password: "secret"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "username")
}

func TestRegisterRequiresPassword(t *testing.T) {
	_, err := NewService(nil).Register(&RegisterDTO{Username: "alice"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "password")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count(.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := NewService(db).Register(&RegisterDTO{Username: "alice", Password: "secret"})

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Contains(t, err.Error(), "alice")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterCreatesViewer(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count(.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	u, err := NewService(db).Register(&RegisterDTO{Username: "alice", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.LevelViewer, u.Level)
	assert.NotEqual(t, "secret", u.Password, "password must be stored hashed")
	require.NoError(t, mock.ExpectationsWereMet())
}
