package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/creatorhub/backend/internal/domain/shared"
	"github.com/creatorhub/backend/internal/domain/submission"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockSubmissionRepository(t *testing.T) (*GormSubmissionRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormSubmissionRepository(gormDB), mock, mockDB
}

func newApprovedSubmission(t *testing.T) *submission.Submission {
	sub, err := submission.NewSubmission(uuid.New(), submission.FileReference{
		URL:        "https://cdn.test/submissions/a.jpg",
		StorageKey: "submissions/a.jpg",
		Type:       submission.FileTypeImage,
		SizeBytes:  1024,
	}, "landscape", "")
	require.NoError(t, err)
	require.NoError(t, sub.Approve(uuid.New()))
	return sub
}

func TestGormSubmissionRepository_FindByID(t *testing.T) {
	t.Run("finds existing submission", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		subID := uuid.New()
		userID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "user_id", "file_storage_key", "file_type", "file_size_bytes", "category", "status", "version"}).
			AddRow(subID, userID, "submissions/a.jpg", "IMAGE", 1024, "landscape", "PENDING", 1)

		mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(subID, 1).
			WillReturnRows(rows)

		sub, err := repo.FindByID(context.Background(), subID)

		assert.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, subID, sub.ID)
		assert.Equal(t, submission.StatusPending, sub.Status)
		assert.Equal(t, submission.FileTypeImage, sub.File.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing submission", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		subID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(subID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sub, err := repo.FindByID(context.Background(), subID)

		assert.Nil(t, sub)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormSubmissionRepository_UpdateReviewIfPending(t *testing.T) {
	t.Run("reports one affected row when still pending", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		sub := newApprovedSubmission(t)

		mock.ExpectExec(`UPDATE "submissions" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.UpdateReviewIfPending(context.Background(), sub)

		assert.NoError(t, err)
		assert.EqualValues(t, 1, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports zero affected rows when another reviewer won", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		sub := newApprovedSubmission(t)

		mock.ExpectExec(`UPDATE "submissions" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.UpdateReviewIfPending(context.Background(), sub)

		assert.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})
}

func TestGormSubmissionRepository_BulkReviewPending(t *testing.T) {
	t.Run("updates only pending rows", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		mock.ExpectExec(`UPDATE "submissions" SET .* WHERE id IN \(\$\d+,\$\d+,\$\d+\) AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 2))

		affected, err := repo.BulkReviewPending(context.Background(), ids, submission.StatusRejected, "off topic", uuid.New(), time.Now())

		assert.NoError(t, err)
		assert.EqualValues(t, 2, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		repo, _, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		affected, err := repo.BulkReviewPending(context.Background(), nil, submission.StatusApproved, "", uuid.New(), time.Now())

		assert.NoError(t, err)
		assert.EqualValues(t, 0, affected)
	})
}

func TestGormSubmissionRepository_Delete(t *testing.T) {
	t.Run("deletes existing submission", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		subID := uuid.New()

		mock.ExpectExec(`DELETE FROM "submissions" WHERE id = \$1`).
			WithArgs(subID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), subID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		subID := uuid.New()

		mock.ExpectExec(`DELETE FROM "submissions" WHERE id = \$1`).
			WithArgs(subID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), subID), shared.ErrNotFound)
	})
}

func TestGormSubmissionRepository_List(t *testing.T) {
	t.Run("filters by status and user", func(t *testing.T) {
		repo, mock, mockDB := newMockSubmissionRepository(t)
		defer mockDB.Close()

		userID := uuid.New()
		status := submission.StatusPending

		countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
		mock.ExpectQuery(`SELECT count\(\*\) FROM "submissions" WHERE user_id = \$1 AND status = \$2`).
			WithArgs(userID, status).
			WillReturnRows(countRows)

		rows := sqlmock.NewRows([]string{"id", "user_id", "file_storage_key", "file_type", "file_size_bytes", "category", "status", "version"}).
			AddRow(uuid.New(), userID, "submissions/a.jpg", "IMAGE", 1024, "landscape", "PENDING", 1)
		mock.ExpectQuery(`SELECT \* FROM "submissions" WHERE user_id = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(userID, status, 20).
			WillReturnRows(rows)

		filter := submission.SubmissionFilter{
			Filter: shared.DefaultFilter(),
			UserID: &userID,
			Status: &status,
		}

		subs, total, err := repo.List(context.Background(), filter)

		assert.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, subs, 1)
		assert.Equal(t, userID, subs[0].UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
