package types

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTopicNotFound  = errors.New("topic not found")
	ErrCourseNotFound = errors.New("course not found")
)
