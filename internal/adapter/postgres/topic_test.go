package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var topicColumns = []string{"id", "title", "message", "status", "created_at", "author_id", "author_name", "course_name"}

func TestTopicRepo_List(t *testing.T) {
	mock := newMock(t)
	repo := NewTopicRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs("Go").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.created_at DESC`) + `\s+` + regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
		WithArgs("Go", 5, 10).
		WillReturnRows(mock.NewRows(topicColumns).
			AddRow(int64(3), "Duvida", "Como usar context?", models.TopicNotAnswered, t0, int64(7), "Ana", "Go"))

	topics, total, err := repo.List(context.Background(), models.TopicFilter{
		CourseName: "Go", Page: 2, Size: 5, SortBy: "created_at", Desc: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, topics, 1)
	assert.Equal(t, int64(3), topics[0].ID)
	assert.Equal(t, models.TopicNotAnswered, topics[0].Status)
	assert.Equal(t, "Ana", topics[0].AuthorName)
}

func TestTopicRepo_List_UnknownSortFallsBackToID(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs("").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY t.id ASC`)).
		WithArgs("", 10, 0).
		WillReturnRows(mock.NewRows(topicColumns))

	topics, _, err := NewTopicRepo(mock).List(context.Background(), models.TopicFilter{Size: 10, SortBy: "password; DROP TABLE users"})
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestTopicRepo_List_EmptySkipsPageQuery(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WithArgs("Cobol").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))

	topics, total, err := NewTopicRepo(mock).List(context.Background(), models.TopicFilter{CourseName: "Cobol", Size: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, topics)
}

func TestTopicRepo_Get(t *testing.T) {
	mock := newMock(t)
	repo := NewTopicRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(mock.NewRows(topicColumns).
			AddRow(int64(3), "Duvida", "Como usar context?", models.TopicNotAnswered, t0, int64(7), "Ana", "Go"))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE t.id = $1`)).
		WithArgs(int64(4)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.CourseName)

	_, err = repo.Get(context.Background(), 4)
	assert.ErrorIs(t, err, types.ErrTopicNotFound)
}

func TestTopicRepo_Create(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO topics`)
	req := &models.TopicCreateRequest{Title: "Duvida", Message: "Como usar context?", CourseName: "Go", AuthorID: 7}
	args := []any{"Duvida", "Como usar context?", models.TopicNotAnswered, int64(7), "Go"}

	tests := []struct {
		name    string
		expect  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "created",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs(args...).
					WillReturnRows(mock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), t0))
			},
		},
		{
			name: "unknown course",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs(args...).WillReturnError(pgx.ErrNoRows)
			},
			wantErr: types.ErrCourseNotFound,
		},
		{
			name: "unknown author",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(insert).WithArgs(args...).WillReturnError(&pgconn.PgError{Code: "23503"})
			},
			wantErr: types.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			tt.expect(mock)

			got, err := NewTopicRepo(mock).Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(12), got.ID)
			assert.Equal(t, models.TopicNotAnswered, got.Status)
			assert.True(t, got.CreatedAt.Equal(t0))
		})
	}
}

func TestTopicRepo_UpdateAndDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewTopicRepo(mock)
	ctx := context.Background()
	req := &models.TopicUpdateRequest{Title: "Novo", Message: "Texto"}

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE topics`)).WithArgs(int64(3), "Novo", "Texto").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE topics`)).WithArgs(int64(4), "Novo", "Texto").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM topics`)).WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM topics`)).WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM topics`)).WithArgs(int64(5)).
		WillReturnError(errors.New("connection reset"))

	assert.NoError(t, repo.Update(ctx, 3, req))
	assert.ErrorIs(t, repo.Update(ctx, 4, req), types.ErrTopicNotFound)
	assert.NoError(t, repo.Delete(ctx, 3))
	assert.ErrorIs(t, repo.Delete(ctx, 4), types.ErrTopicNotFound)

	err := repo.Delete(ctx, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TopicRepo.Delete")
}
