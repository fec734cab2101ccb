package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/resonance-app/resonance/internal/common"
	"github.com/resonance-app/resonance/internal/server/models"
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

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec(q).
		WithArgs("rt_1", "u1", "hash123", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.RefreshToken{
		ID: "rt_1", UserID: "u1", TokenHash: "hash123", ExpiresAt: expires,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b`

	mock.ExpectExec(q).
		WithArgs("rt_1", "u1", "hash123", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.RefreshToken{
		ID: "rt_1", UserID: "u1", TokenHash: "hash123", ExpiresAt: time.Now(),
	})
	if err == nil || !regexp.MustCompile(`failed to insert refresh token: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*token_hash,\s*expires_at,\s*revoked_at,\s*created_at\s+FROM\s+refresh_tokens\s+WHERE\s+id=\$1\s*$`

	expires := time.Now().Add(10 * time.Minute)
	created := time.Now().Add(-time.Minute)
	rows := sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}).
		AddRow("rt_1", "u1", "hash123", expires, nil, created)

	mock.ExpectQuery(q).
		WithArgs("rt_1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "rt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.UserID != "u1" || got.TokenHash != "hash123" || got.RevokedAt != nil {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+refresh_tokens\s+WHERE\s+id=\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestRevoke_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+refresh_tokens\s+SET\s+revoked_at=\$2\s+WHERE\s+id=\$1\s+AND\s+revoked_at\s+IS\s+NULL\s*$`

	at := time.Now()
	mock.ExpectExec(q).
		WithArgs("rt_1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Revoke(context.Background(), "rt_1", at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRevoke_AlreadyRevokedIsConflict(t *testing.T) {
	// The WHERE revoked_at IS NULL guard means a second revoke touches zero
	// rows, which must surface as a conflict so token reuse is caught.
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+refresh_tokens\s+SET\s+revoked_at=\$2`).
		WithArgs("rt_1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "rt_1", time.Now())
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want common.ErrConflict, got %v", err)
	}
}

func TestRevoke_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+refresh_tokens\s+SET\s+revoked_at=\$2`).
		WithArgs("rt_1", sqlmock.AnyArg()).
		WillReturnError(errors.New("db err"))

	err := repo.Revoke(context.Background(), "rt_1", time.Now())
	if err == nil || !regexp.MustCompile(`failed to revoke refresh token: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
