package dto

import (
	"time"

	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/pkg/validator"
)

type CreateTopicRequest struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	CourseName string `json:"course_name"`
}

func (r *CreateTopicRequest) ToModel(authorID int64) *models.TopicCreateRequest {
	return &models.TopicCreateRequest{
		Title:      r.Title,
		Message:    r.Message,
		CourseName: r.CourseName,
		AuthorID:   authorID,
	}
}

type UpdateTopicRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (r *UpdateTopicRequest) ToModel() *models.TopicUpdateRequest {
	return &models.TopicUpdateRequest{
		Title:   r.Title,
		Message: r.Message,
	}
}

// TopicResponse is the list view of a topic.
type TopicResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicDetailResponse adds author, course and status to TopicResponse.
type TopicDetailResponse struct {
	TopicResponse
	Status     models.TopicStatus `json:"status"`
	AuthorName string             `json:"author_name"`
	CourseName string             `json:"course_name"`
}

func NewTopicResponse(t models.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		Title:     t.Title,
		Message:   t.Message,
		CreatedAt: t.CreatedAt,
	}
}

func NewTopicDetailResponse(t *models.Topic) TopicDetailResponse {
	return TopicDetailResponse{
		TopicResponse: NewTopicResponse(*t),
		Status:        t.Status,
		AuthorName:    t.AuthorName,
		CourseName:    t.CourseName,
	}
}

func NewTopicPage(p models.Page[models.Topic]) models.Page[TopicResponse] {
	content := make([]TopicResponse, 0, len(p.Content))
	for _, t := range p.Content {
		content = append(content, NewTopicResponse(t))
	}
	return models.NewPage(content, p.Page, p.Size, p.TotalElements)
}

func ValidateCreateTopic(v *validator.Validator, req *CreateTopicRequest) {
	validateTitleMessage(v, req.Title, req.Message)
	v.Check(req.CourseName != "", "course_name", "must be provided")
}

func ValidateUpdateTopic(v *validator.Validator, req *UpdateTopicRequest) {
	validateTitleMessage(v, req.Title, req.Message)
}

func validateTitleMessage(v *validator.Validator, title, message string) {
	v.Check(len(title) >= 5, "title", "must be at least 5 bytes long")
	v.Check(len(title) <= 200, "title", "must not be more than 200 bytes long")
	v.Check(len(message) >= 10, "message", "must be at least 10 bytes long")
	v.Check(len(message) <= 5000, "message", "must not be more than 5000 bytes long")
}
