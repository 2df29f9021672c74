package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/creatorhub/backend/internal/domain/identity"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newMockUserRepository(t *testing.T) (*GormUserRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormUserRepository(gormDB), mock, mockDB
}

func TestGormUserRepository_FindByID(t *testing.T) {
	t.Run("finds existing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "external_id", "nickname", "balance", "role", "banned", "version"}).
			AddRow(userID, "ext-123", "Alice", decimal.NewFromInt(42), "USER", false, 1)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		user, err := repo.FindByID(context.Background(), userID)

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "ext-123", user.ExternalID)
		assert.Equal(t, identity.RoleUser, user.Role)
		assert.True(t, user.Balance.Equal(decimal.NewFromInt(42)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByID(context.Background(), userID)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_FindByExternalID(t *testing.T) {
	t.Run("finds user by external id", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "external_id", "nickname", "balance", "role", "banned", "version"}).
			AddRow(userID, "ext-123", "Alice", decimal.Zero, "USER", false, 1)

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE external_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("ext-123", 1).
			WillReturnRows(rows)

		user, err := repo.FindByExternalID(context.Background(), "ext-123")

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "ext-123", user.ExternalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown external id", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "users" WHERE external_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("missing", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.FindByExternalID(context.Background(), "missing")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_Create(t *testing.T) {
	t.Run("maps duplicate key to ErrAlreadyExists", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		user, err := identity.NewUser("ext-123", "Alice", identity.RoleUser)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Create(context.Background(), user)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("creates new user", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		user, err := identity.NewUser("ext-123", "Alice", identity.RoleUser)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "users"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.Create(context.Background(), user)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormUserRepository_List(t *testing.T) {
	t.Run("lists users with role filter", func(t *testing.T) {
		repo, mock, mockDB := newMockUserRepository(t)
		defer mockDB.Close()

		role := identity.RoleModerator

		countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE role = \$1`).
			WithArgs(role).
			WillReturnRows(countRows)

		rows := sqlmock.NewRows([]string{"id", "external_id", "nickname", "balance", "role", "banned", "version"}).
			AddRow(uuid.New(), "ext-1", "Mod", decimal.Zero, "MODERATOR", false, 1)
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE role = \$1 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(role, 20).
			WillReturnRows(rows)

		filter := identity.UserFilter{Filter: shared.DefaultFilter(), Role: &role}
		filter.OrderDir = "desc"

		users, total, err := repo.List(context.Background(), filter)

		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, identity.RoleModerator, users[0].Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
