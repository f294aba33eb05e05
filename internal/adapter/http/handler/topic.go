package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Temutjin2k/forum-api/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/forum-api/internal/domain/models"
	"github.com/Temutjin2k/forum-api/internal/service/authz"
	"github.com/Temutjin2k/forum-api/pkg/logger"
	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/Temutjin2k/forum-api/pkg/validator"
)

type TopicService interface {
	List(ctx context.Context, filter models.TopicFilter) (models.Page[models.Topic], error)
	Get(ctx context.Context, id int64) (*models.Topic, error)
	Create(ctx context.Context, req *models.TopicCreateRequest) (*models.Topic, error)
	Update(ctx context.Context, id int64, author *models.User, req *models.TopicUpdateRequest) (*models.Topic, error)
	Delete(ctx context.Context, id int64, user *models.User) error
}

type Topic struct {
	topics TopicService
	l      logger.Logger
}

func NewTopic(service TopicService, l logger.Logger) *Topic {
	return &Topic{
		topics: service,
		l:      l,
	}
}

// List godoc
// @Summary      List topics
// @Description  Paginated list of topics, optionally filtered by course name
// @Tags         Topics
// @Produce      json
// @Param        curso  query     string  false  "Course name"
// @Param        page   query     int     false  "Zero based page number"
// @Param        size   query     int     false  "Page size"
// @Param        sort   query     string  false  "Sort field and direction, e.g. created_at,desc"
// @Success      200    {object}  models.Page[dto.TopicResponse]
// @Failure      400    {object}  map[string]string
// @Router       /topicos [get]
func (h *Topic) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_topics")

	filter, err := readTopicFilter(r)
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	page, err := h.topics.List(ctx, filter)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list topics", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTopicPage(page), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
// @Summary      Get topic
// @Tags         Topics
// @Produce      json
// @Param        id   path      int  true  "Topic ID"
// @Success      200  {object}  dto.TopicDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /topicos/{id} [get]
func (h *Topic) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_topic")

	id, err := readIDParam(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	t, err := h.topics.Get(ctx, id)
	if err != nil {
		h.logServiceError(ctx, "failed to get topic", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTopicDetailResponse(t), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Create godoc
// @Summary      Create topic
// @Description  Creates a topic authored by the authenticated user
// @Tags         Topics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      dto.CreateTopicRequest  true  "Topic"
// @Success      201      {object}  dto.TopicResponse
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      422      {object}  map[string]string
// @Router       /topicos [post]
func (h *Topic) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_topic")

	user := models.UserFromContext(ctx)
	if user == nil {
		errorResponse(w, http.StatusUnauthorized, authz.ErrUnauthenticated.Error())
		return
	}

	req := &dto.CreateTopicRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCreateTopic(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	t, err := h.topics.Create(ctx, req.ToModel(user.ID))
	if err != nil {
		h.logServiceError(ctx, "failed to create topic", err)
		serviceErrorResponse(w, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/topicos/"+models.FormatID(t.ID))

	if err := writeJSON(w, http.StatusCreated, dto.NewTopicResponse(*t), headers); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Update godoc
// @Summary      Update topic
// @Description  Changes title and message. Only the author may update a topic
// @Tags         Topics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                     true  "Topic ID"
// @Param        request  body      dto.UpdateTopicRequest  true  "Topic"
// @Success      200      {object}  dto.TopicDetailResponse
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /topicos/{id} [put]
func (h *Topic) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_topic")

	user := models.UserFromContext(ctx)
	if user == nil {
		errorResponse(w, http.StatusUnauthorized, authz.ErrUnauthenticated.Error())
		return
	}

	id, err := readIDParam(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	req := &dto.UpdateTopicRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUpdateTopic(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	t, err := h.topics.Update(ctx, id, user, req.ToModel())
	if err != nil {
		h.logServiceError(ctx, "failed to update topic", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, dto.NewTopicDetailResponse(t), nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Delete godoc
// @Summary      Delete topic
// @Description  Authors and moderators may delete a topic
// @Tags         Topics
// @Security     BearerAuth
// @Param        id   path  int  true  "Topic ID"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /topicos/{id} [delete]
func (h *Topic) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_topic")

	user := models.UserFromContext(ctx)
	if user == nil {
		errorResponse(w, http.StatusUnauthorized, authz.ErrUnauthenticated.Error())
		return
	}

	id, err := readIDParam(r)
	if err != nil {
		errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	if err := h.topics.Delete(ctx, id, user); err != nil {
		h.logServiceError(ctx, "failed to delete topic", err)
		serviceErrorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// logServiceError logs unexpected failures at ERROR and client errors at DEBUG.
func (h *Topic) logServiceError(ctx context.Context, msg string, err error) {
	if GetCode(err) == http.StatusInternalServerError {
		h.l.Error(wrap.ErrorCtx(ctx, err), msg, err)
		return
	}
	h.l.Debug(ctx, msg, "reason", err.Error())
}

// readTopicFilter parses ?curso=&page=&size=&sort=field[,asc|desc].
func readTopicFilter(r *http.Request) (models.TopicFilter, error) {
	q := r.URL.Query()

	page, err := readInt(r, "page", 0)
	if err != nil {
		return models.TopicFilter{}, err
	}
	size, err := readInt(r, "size", 0)
	if err != nil {
		return models.TopicFilter{}, err
	}

	filter := models.TopicFilter{
		CourseName: q.Get("curso"),
		Page:       page,
		Size:       size,
	}

	if sort := q.Get("sort"); sort != "" {
		field, dir, _ := strings.Cut(sort, ",")
		filter.SortBy = strings.TrimSpace(field)
		filter.Desc = strings.EqualFold(strings.TrimSpace(dir), "desc")
	}

	return filter, nil
}
