package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"eventsx/internal/app"
	"eventsx/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	s, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = s.Close()
	})
	return New(s), mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

var userCols = []string{"id", "username", "name", "email", "phone", "password_hash", "role", "created_at"}

func TestGetByLogin(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(q("SELECT " + userColumns + " FROM users WHERE username = $1 OR email = $1 ORDER BY id LIMIT 1")).
		WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "Alice", "alice@x.com", "", "hash", "admin", created))

	u, err := db.GetByLogin(context.Background(), "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, created, u.CreatedAt)
}

func TestGetByLogin_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("FROM users WHERE username = $1 OR email = $1")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	u, err := db.GetByLogin(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestExistsByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)")).
		WithArgs("alice", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := db.ExistsByUsernameOrEmail(context.Background(), "alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCount(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT COUNT(1) FROM users;")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := db.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBootstrapAdmin_EmptyDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	svc := app.NewAuthService(db, NewSessionRepo(db), 0).WithHashCost(bcrypt.MinCost)

	mock.ExpectQuery(q("SELECT COUNT(1) FROM users;")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("admin", "admin", "admin@x.com", "", sqlmock.AnyArg(), "admin", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "admin", "admin", "admin@x.com", "", "hash", "admin", time.Now()))

	ok, err := svc.BootstrapAdmin(context.Background(), "admin", "admin@x.com", "adminpass1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBootstrapAdmin_UsersPresent(t *testing.T) {
	db, mock := newMockDB(t)
	svc := app.NewAuthService(db, NewSessionRepo(db), 0)

	mock.ExpectQuery(q("SELECT COUNT(1) FROM users;")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	ok, err := svc.BootstrapAdmin(context.Background(), "admin", "admin@x.com", "adminpass1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("INSERT INTO users (username, name, email, phone, password_hash, role, created_at)")).
		WithArgs("alice", "Alice", "alice@x.com", "", "hash", "user", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := db.Create(context.Background(), domain.User{Username: "alice", Name: "Alice", Email: "alice@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()
	mock.ExpectQuery(q("INSERT INTO users")).
		WithArgs("bob", "Bob", "bob@x.com", "555", "hash", "user", now).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "bob", "Bob", "bob@x.com", "555", "hash", "user", now))

	u, err := db.Create(context.Background(), domain.User{
		Username: "bob", Name: "Bob", Email: "bob@x.com", Phone: "555", PasswordHash: "hash", CreatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), u.ID)
	assert.Equal(t, domain.RoleUser, u.Role)
}

func TestSessionRepo(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)
	ctx := context.Background()
	exp := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	created := exp.Add(-24 * time.Hour)

	mock.ExpectExec(q("INSERT INTO sessions (token, user_id, username, name, email, role, expires_at, created_at)")).
		WithArgs("tok", int64(1), "alice", "Alice", "a@x", "user", exp, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(ctx, domain.Session{
		Token:     "tok",
		Profile:   domain.Profile{ID: 1, Username: "alice", Name: "Alice", Email: "a@x", Role: domain.RoleUser},
		ExpiresAt: exp,
		CreatedAt: created,
	}))

	mock.ExpectQuery(q("FROM sessions WHERE token = $1")).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"token", "user_id", "username", "name", "email", "role", "expires_at", "created_at"}).
			AddRow("tok", 1, "alice", "Alice", "a@x", "user", exp, created))
	s, err := repo.GetByToken(ctx, "tok")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "alice", s.Profile.Username)
	assert.Equal(t, domain.RoleUser, s.Profile.Role)

	mock.ExpectQuery(q("FROM sessions WHERE token = $1")).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)
	s, err = repo.GetByToken(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, s)

	mock.ExpectExec(q("DELETE FROM sessions WHERE token = $1")).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, "tok"))

	mock.ExpectExec(q("DELETE FROM sessions WHERE expires_at <= $1")).
		WithArgs(exp).
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteExpired(ctx, exp)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestListEvents(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT id, name, category, date, location, cost, image FROM events ORDER BY id DESC;")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "category", "date", "location", "cost", "image"}).
			AddRow(15, "Burns Night", "Social", "2026-01-25", "Hall", 12.5, "burns.webp").
			AddRow(14, "Quiz", "Social", "2026-01-10", "Bar", 0.0, ""))

	events, err := db.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(15), events[0].ID)
	assert.InDelta(t, 12.5, events[0].Cost, 0.001)
}

func TestAddEvent(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("INSERT INTO events(name, category, date, location, cost, image)")).
		WithArgs("Open Mic", "Music", "2026-06-01", "Cellar", 5.0, "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(16))

	id, err := db.AddEvent(context.Background(), domain.Event{Name: "Open Mic", Category: "Music", Date: "2026-06-01", Location: "Cellar", Cost: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(16), id)
}

const (
	lockUser    = "SELECT id FROM users WHERE id = $1 FOR UPDATE;"
	existsReg   = "SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND (event_key = $2 OR event_name = $3));"
	insertReg   = "INSERT INTO registrations(user_id, event_key, event_name, created_at) VALUES($1, $2, $3, $4);"
	listRegsSQL = "SELECT id, event_key, event_name, created_at FROM registrations WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2;"
)

func TestCreateIfAbsent_Inserts(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockUser)).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(q(existsReg)).WithArgs(int64(1), "EventA", "EventA").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(q(insertReg)).WithArgs(int64(1), "EventA", "EventA", at).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := db.CreateIfAbsent(context.Background(), domain.Registration{UserID: 1, EventKey: "EventA", EventName: "EventA", CreatedAt: at})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestCreateIfAbsent_AlreadyRegistered(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockUser)).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(q(existsReg)).WithArgs(int64(1), "EventA", "Event A").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	created, err := db.CreateIfAbsent(context.Background(), domain.Registration{UserID: 1, EventKey: "EventA", EventName: "Event A", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateIfAbsent_UniqueViolationIsAlreadyRegistered(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockUser)).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(q(existsReg)).WithArgs(int64(1), "EventA", "EventA").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(q(insertReg)).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	created, err := db.CreateIfAbsent(context.Background(), domain.Registration{UserID: 1, EventKey: "EventA", EventName: "EventA", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCreateIfAbsent_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockUser)).WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := db.CreateIfAbsent(context.Background(), domain.Registration{UserID: 99, EventKey: "EventA", EventName: "EventA", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCreateIfAbsent_InsertFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockUser)).WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(q(existsReg)).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(q(insertReg)).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := db.CreateIfAbsent(context.Background(), domain.Registration{UserID: 1, EventKey: "EventA", EventName: "EventA", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, boom)
}

func TestListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(listRegsSQL)).
		WithArgs(int64(1), 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_key", "event_name", "created_at"}).
			AddRow(2, "EventB", "EventB", at.Add(time.Minute)).
			AddRow(1, "EventA", "EventA", at))

	items, err := db.ListByUser(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "EventB", items[0].EventKey)
	assert.Equal(t, int64(1), items[1].UserID)
}

func TestOpen_PingFailure(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(context.Context, *sql.DB) error {
		t.Fatal("migrations must not run when ping fails")
		return nil
	}

	// Nothing listens on port 1.
	_, err := Open(context.Background(), "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping")
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.withTx(context.Background(), func(*sql.Tx) error { panic("boom") })
	})
}
