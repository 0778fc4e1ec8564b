package user

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/models"
	"github.com/faqbase/core/internal/modules/category"
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

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewService(db).GetByID(99)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT (.+) FROM `users` ORDER BY username ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(2, "alice", models.LevelViewer).
			AddRow(1, "bob", models.LevelAdmin))

	users, err := NewService(db).List()

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateValidation(t *testing.T) {
	svc := NewService(nil)
	level := models.LevelViewer

	_, err := svc.Update(1, &EditUserDTO{Username: "  ", Level: &level})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.Update(1, &EditUserDTO{Username: "alice"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	bad := 5
	_, err = svc.Update(1, &EditUserDTO{Username: "alice", Level: &bad})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "between 1 and 4")
}

func TestDeleteSelfForbidden(t *testing.T) {
	actor := &models.UserModel{Level: models.LevelAdmin}
	actor.ID = 3

	err := NewService(nil).Delete(3, actor, category.ModeKeep)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestDeleteInvalidMode(t *testing.T) {
	actor := &models.UserModel{Level: models.LevelAdmin}
	actor.ID = 3

	err := NewService(nil).Delete(4, actor, category.DeleteMode("merge"))

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeleteKeepReassignsNotesToFallbackAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	actor := &models.UserModel{Level: models.LevelAdmin}
	actor.ID = 3

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(4, "victim", models.LevelContributor))
	// lowest-id admin other than the target adopts the notes
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(1, "root", models.LevelAdmin))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `notes` SET").
		WithArgs(1, sqlmock.AnyArg(), 4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `user_sessions`").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `users`").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewService(db).Delete(4, actor, category.ModeKeep))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesTargetNotes(t *testing.T) {
	db, mock := newMockDB(t)
	actor := &models.UserModel{Level: models.LevelAdmin}
	actor.ID = 3

	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(4, "victim", models.LevelContributor))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(1, "root", models.LevelAdmin))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `notes`").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `user_sessions`").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `users`").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewService(db).Delete(4, actor, category.ModeDelete))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNoFallbackAdmin(t *testing.T) {
	db, mock := newMockDB(t)
	actor := &models.UserModel{Level: models.LevelAdmin}
	actor.ID = 3

	// target lookup succeeds, fallback admin lookup comes back empty
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "level"}).
			AddRow(4, "victim", models.LevelContributor))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := NewService(db).Delete(4, actor, category.ModeKeep)

	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindIntegrity))
	require.NoError(t, mock.ExpectationsWereMet())
}
