package models

import (
	"strconv"
	"time"
)

type TopicStatus string

const (
	TopicNotAnswered TopicStatus = "NOT_ANSWERED"
	TopicNotSolved   TopicStatus = "NOT_SOLVED"
	TopicSolved      TopicStatus = "SOLVED"
	TopicClosed      TopicStatus = "CLOSED"
)

type Topic struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Status     TopicStatus `json:"status"`
	AuthorID   int64       `json:"author_id"`
	AuthorName string      `json:"author_name"`
	CourseName string      `json:"course_name"`
	CreatedAt  time.Time   `json:"created_at"`
}

type TopicCreateRequest struct {
	Title      string
	Message    string
	CourseName string
	AuthorID   int64
}

type TopicUpdateRequest struct {
	Title   string
	Message string
}

// TopicFilter selects a page of topics, optionally restricted to one course.
type TopicFilter struct {
	CourseName string
	Page       int
	Size       int
	SortBy     string
	Desc       bool
}

type Page[T any] struct {
	Content       []T `json:"content"`
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalElements int `json:"total_elements"`
	TotalPages    int `json:"total_pages"`
}

// NewPage builds a page and derives TotalPages from total and size.
func NewPage[T any](content []T, page, size, total int) Page[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// FormatID renders an id the way it appears in URLs.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
