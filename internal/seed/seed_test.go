package seed

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userQ    = `(?s)^\s*INSERT\s+INTO\s+users\s*\(name,\s*email,\s*password,\s*avatar\).*ON\s+CONFLICT\s+\(email\).*RETURNING\s+id\s*$`
	profileQ = `(?s)^\s*INSERT\s+INTO\s+profiles\s*\(user_id,\s*status,\s*skills,\s*bio\).*ON\s+CONFLICT\s+\(user_id\).*RETURNING\s+id\s*$`
	postQ    = `(?s)^\s*INSERT\s+INTO\s+posts\s*\(user_id,\s*text,\s*name,\s*avatar\).*WHERE\s+NOT\s+EXISTS.*RETURNING\s+id\s*$`
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

const avatar = "https://www.gravatar.com/avatar/8d145fb0afe2ed63481e4d3e14194f4b?s=200&r=pg&d=mm"

func TestRun_FirstTime(t *testing.T) {
	db, mock := newMock(t)
	d := DefaultDemo

	mock.ExpectBegin()
	mock.ExpectQuery(userQ).
		WithArgs(d.Name, "demo@devconnector.local", sqlmock.AnyArg(), avatar).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectQuery(profileQ).
		WithArgs("u-1", "Developer", "Go,PostgreSQL,Docker", d.Bio).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1"))
	mock.ExpectQuery(postQ).
		WithArgs("u-1", d.PostText, d.Name, avatar).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("post-1"))
	mock.ExpectCommit()

	res, err := Run(context.Background(), db, d)
	require.NoError(t, err)
	assert.Equal(t, &Result{UserID: "u-1", ProfileID: "p-1", PostID: "post-1", PostCreated: true}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_AlreadySeeded(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(userQ).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectQuery(profileQ).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1"))
	mock.ExpectQuery(postQ).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	res, err := Run(context.Background(), db, DefaultDemo)
	require.NoError(t, err)
	assert.False(t, res.PostCreated)
	assert.Empty(t, res.PostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(userQ).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectQuery(profileQ).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := Run(context.Background(), db, DefaultDemo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed profile: db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
