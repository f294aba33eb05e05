package postgres

import (
	"context"
	"fmt"
	"time"
)

type CourseRepo struct {
	db Querier
}

func NewCourseRepo(db Querier) *CourseRepo {
	return &CourseRepo{db: db}
}

func (r *CourseRepo) ExistsByName(ctx context.Context, name string) (exists bool, err error) {
	defer observe("course_exists", time.Now(), &err)

	const q = `SELECT EXISTS (SELECT 1 FROM courses WHERE name = $1);`
	if err = TxorDB(ctx, r.db).QueryRow(ctx, q, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("CourseRepo.ExistsByName: %w", err)
	}
	return exists, nil
}
