package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	pgutil "github.com/Temutjin2k/forum-api/pkg/postgres"
	"github.com/jackc/pgx/v5"
)

type TopicRepo struct {
	db Querier
}

func NewTopicRepo(db Querier) *TopicRepo {
	return &TopicRepo{db: db}
}

// orderColumns maps sortable fields to SQL; never interpolate client input directly.
var orderColumns = map[string]string{
	"id":         "t.id",
	"title":      "t.title",
	"created_at": "t.created_at",
}

const selectTopic = `
	SELECT t.id, t.title, t.message, t.status, t.created_at, u.id, u.name, c.name
	FROM topics t
	JOIN users u ON u.id = t.author_id
	JOIN courses c ON c.id = t.course_id
`

// List returns one page of topics and the total number of topics matching the filter.
func (r *TopicRepo) List(ctx context.Context, filter models.TopicFilter) (topics []models.Topic, total int, err error) {
	const op = "TopicRepo.List"
	defer observe("list_topics", time.Now(), &err)

	column, ok := orderColumns[filter.SortBy]
	if !ok {
		column = "t.id"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	const count = `
		SELECT COUNT(*)
		FROM topics t
		JOIN courses c ON c.id = t.course_id
		WHERE ($1 = '' OR c.name = $1);
	`
	if err = TxorDB(ctx, r.db).QueryRow(ctx, count, filter.CourseName).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}
	if total == 0 {
		return []models.Topic{}, 0, nil
	}

	q := selectTopic + fmt.Sprintf(`
		WHERE ($1 = '' OR c.name = $1)
		ORDER BY %s %s
		LIMIT $2 OFFSET $3;`, column, direction)

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, filter.CourseName, filter.Size, filter.Page*filter.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	topics = make([]models.Topic, 0, filter.Size)
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		topics = append(topics, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return topics, total, nil
}

func (r *TopicRepo) Get(ctx context.Context, id int64) (t *models.Topic, err error) {
	defer observe("get_topic", time.Now(), &err)

	t, err = scanTopic(TxorDB(ctx, r.db).QueryRow(ctx, selectTopic+` WHERE t.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTopicNotFound
		}
		return nil, fmt.Errorf("TopicRepo.Get: %w", err)
	}
	return t, nil
}

func (r *TopicRepo) Create(ctx context.Context, req *models.TopicCreateRequest) (t *models.Topic, err error) {
	const op = "TopicRepo.Create"
	defer observe("create_topic", time.Now(), &err)

	const q = `
		INSERT INTO topics (title, message, status, author_id, course_id)
		SELECT $1, $2, $3, $4, c.id FROM courses c WHERE c.name = $5
		RETURNING id, created_at;
	`

	t = &models.Topic{
		Title:      req.Title,
		Message:    req.Message,
		Status:     models.TopicNotAnswered,
		AuthorID:   req.AuthorID,
		CourseName: req.CourseName,
	}

	err = TxorDB(ctx, r.db).QueryRow(ctx, q, req.Title, req.Message, t.Status, req.AuthorID, req.CourseName).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, types.ErrCourseNotFound
		case pgutil.IsForeignKeyViolation(err):
			return nil, types.ErrUserNotFound
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return t, nil
}

func (r *TopicRepo) Update(ctx context.Context, id int64, req *models.TopicUpdateRequest) (err error) {
	defer observe("update_topic", time.Now(), &err)

	const q = `UPDATE topics SET title = $2, message = $3 WHERE id = $1;`
	tag, err := TxorDB(ctx, r.db).Exec(ctx, q, id, req.Title, req.Message)
	if err != nil {
		return fmt.Errorf("TopicRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrTopicNotFound
	}
	return nil
}

func (r *TopicRepo) Delete(ctx context.Context, id int64) (err error) {
	defer observe("delete_topic", time.Now(), &err)

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM topics WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("TopicRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrTopicNotFound
	}
	return nil
}

func scanTopic(row pgx.Row) (*models.Topic, error) {
	var t models.Topic
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Message,
		&t.Status,
		&t.CreatedAt,
		&t.AuthorID,
		&t.AuthorName,
		&t.CourseName,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
