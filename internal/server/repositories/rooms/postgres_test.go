package rooms

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+rooms\s*\(name,\s*description,\s*created_by,\s*is_private,\s*room_token\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at\s*$`
	pq := `(?s)^INSERT\s+INTO\s+room_participants\s*\(room_id,\s*user_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*$`

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created)
	mock.ExpectBegin()
	mock.ExpectQuery(q).
		WithArgs("general", "town square", int64(1), false, "abc123").
		WillReturnRows(rows)
	mock.ExpectExec(pq).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	room := &models.Room{Name: "general", Description: "town square", CreatedBy: 1, Token: "abc123"}
	got, err := repo.Create(context.Background(), room)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected room: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_RollsBackWhenParticipantInsertFails(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+rooms`).
		WithArgs("general", "", int64(1), false, "abc123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), created))
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+room_participants`).
		WithArgs(int64(7), int64(1)).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &models.Room{Name: "general", CreatedBy: 1, Token: "abc123"})
	if err == nil || !regexp.MustCompile(`db error: .*constraint violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name,\s*description,\s*created_by,\s*is_private,\s*room_token\s+FROM\s+rooms\s+WHERE\s+room_token\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "name", "description", "created_by", "is_private", "room_token"}).
		AddRow(int64(7), "general", "town square", int64(1), false, "abc123")
	mock.ExpectQuery(q).
		WithArgs("abc123").
		WillReturnRows(rows)

	got, err := repo.GetByToken(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetByToken error: %v", err)
	}
	if got.ID != 7 || got.Name != "general" || got.Token != "abc123" {
		t.Fatalf("unexpected room: %+v", got)
	}
}

func TestGetByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*name`

	mock.ExpectQuery(q).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListForUser_ReturnsOwnedAndJoined(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+DISTINCT\s+r\.id.*LEFT\s+JOIN\s+room_participants.*WHERE\s+r\.created_by\s*=\s*\$1\s+OR\s+rp\.user_id\s*=\s*\$1`

	rows := sqlmock.NewRows([]string{"id", "name", "description", "created_by", "is_private", "room_token"}).
		AddRow(int64(7), "general", "", int64(1), false, "abc123").
		AddRow(int64(9), "random", "", int64(2), false, "def456")
	mock.ExpectQuery(q).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.ListForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForUser error: %v", err)
	}
	if len(got) != 2 || got[0].Token != "abc123" || got[1].Token != "def456" {
		t.Fatalf("unexpected rooms: %+v", got)
	}
}

func TestUpdateName_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+rooms\s+SET\s+name\s*=\s*\$1\s+WHERE\s+room_token\s*=\s*\$2\s+RETURNING\s+id,\s*name\s*$`

	rows := sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(7), "renamed")
	mock.ExpectQuery(q).
		WithArgs("renamed", "abc123").
		WillReturnRows(rows)

	got, err := repo.UpdateName(context.Background(), "abc123", "renamed")
	if err != nil {
		t.Fatalf("UpdateName error: %v", err)
	}
	if got.Name != "renamed" || got.Token != "abc123" {
		t.Fatalf("unexpected room: %+v", got)
	}
}

func TestUpdateName_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+rooms\s+SET\s+name`

	mock.ExpectQuery(q).
		WithArgs("renamed", "nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateName(context.Background(), "nope", "renamed")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+rooms\s+WHERE\s+room_token\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "abc123"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}

func TestDelete_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+rooms`

	mock.ExpectExec(q).
		WithArgs("abc123").
		WillReturnError(errors.New("db down"))

	err := repo.Delete(context.Background(), "abc123")
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
