package topic

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/domain/types"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/Temutjin2k/forum-api/pkg/trm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrNotAuthor      = errors.New("only the author can change the topic")
	ErrPageOutOfRange = errors.New("page is out of range")
)

// sortable columns accepted from clients.
var sortable = map[string]struct{}{
	"id":         {},
	"title":      {},
	"created_at": {},
}

type Service struct {
	topics    TopicRepo
	courses   CourseRepo
	txManager trm.TxManager
	log       logger.Logger
}

func NewService(topics TopicRepo, courses CourseRepo, txManager trm.TxManager, log logger.Logger) *Service {
	return &Service{
		topics:    topics,
		courses:   courses,
		txManager: txManager,
		log:       log,
	}
}

// List returns a page of topics, newest first unless the filter says otherwise.
func (s *Service) List(ctx context.Context, filter models.TopicFilter) (models.Page[models.Topic], error) {
	ctx = wrap.WithAction(ctx, "list_topics")

	filter, err := normalizeFilter(filter)
	if err != nil {
		return models.Page[models.Topic]{}, wrap.Error(ctx, err)
	}

	var (
		topics []models.Topic
		total  int
	)
	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		topics, total, err = s.topics.List(txCtx, filter)
		return err
	})
	if err != nil {
		return models.Page[models.Topic]{}, wrap.Error(ctx, err)
	}

	return models.NewPage(topics, filter.Page, filter.Size, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Topic, error) {
	ctx = wrap.WithAction(ctx, "get_topic")

	t, err := s.topics.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return t, nil
}

func (s *Service) Create(ctx context.Context, req *models.TopicCreateRequest) (*models.Topic, error) {
	ctx = wrap.WithAction(ctx, "create_topic")

	ok, err := s.courses.ExistsByName(ctx, req.CourseName)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !ok {
		return nil, wrap.Error(ctx, types.ErrCourseNotFound)
	}

	t, err := s.topics.Create(ctx, req)
	if err != nil {
		s.log.Error(ctx, "failed to create topic", err)
		return nil, wrap.Error(ctx, err)
	}
	return t, nil
}

// Update changes title and message. Only the author may update a topic.
func (s *Service) Update(ctx context.Context, id int64, author *models.User, req *models.TopicUpdateRequest) (*models.Topic, error) {
	ctx = wrap.WithAction(ctx, "update_topic")

	var updated *models.Topic
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.topics.Get(txCtx, id)
		if err != nil {
			return err
		}
		if author == nil || current.AuthorID != author.ID {
			return ErrNotAuthor
		}

		if err := s.topics.Update(txCtx, id, req); err != nil {
			return err
		}

		current.Title = req.Title
		current.Message = req.Message
		updated = current
		return nil
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return updated, nil
}

// Delete removes a topic. Authors and moderators may delete.
func (s *Service) Delete(ctx context.Context, id int64, user *models.User) error {
	ctx = wrap.WithAction(ctx, "delete_topic")

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.topics.Get(txCtx, id)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if user == nil || (current.AuthorID != user.ID && !user.HasProfile(types.ProfileModerator.String())) {
			return wrap.Error(ctx, ErrNotAuthor)
		}
		return s.topics.Delete(txCtx, id)
	})
}

// normalizeFilter clamps the page window and falls back to id desc for unknown sort columns.
// Pages whose offset would not fit in an int are rejected.
func normalizeFilter(f models.TopicFilter) (models.TopicFilter, error) {
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	if _, ok := sortable[f.SortBy]; !ok {
		f.SortBy = "id"
		f.Desc = true
	}
	if f.Page > math.MaxInt/f.Size {
		return f, fmt.Errorf("%w: page %d with size %d", ErrPageOutOfRange, f.Page, f.Size)
	}
	return f, nil
}
