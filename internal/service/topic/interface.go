package topic

import (
	"context"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
)

type TopicRepo interface {
	List(ctx context.Context, filter models.TopicFilter) ([]models.Topic, int, error)
	Get(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, req *models.TopicCreateRequest) (*models.Topic, error)
	Update(ctx context.Context, id int64, req *models.TopicUpdateRequest) error
	Delete(ctx context.Context, id int64) error
}

type CourseRepo interface {
	ExistsByName(ctx context.Context, name string) (bool, error)
}
