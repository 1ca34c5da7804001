package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type TestimonialGormRepository struct {
	db *gorm.DB
}

func NewTestimonialGormRepository(db *gorm.DB) *TestimonialGormRepository {
	return &TestimonialGormRepository{db: db}
}

// 新しい順
func (r *TestimonialGormRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	var items []model.Testimonial

	if err := r.db.WithContext(ctx).
		Order("published_at desc").
		Find(&items).Error; err != nil {
		return []model.Testimonial{}, err
	}

	return items, nil
}

func (r *TestimonialGormRepository) Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error) {
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return model.Testimonial{}, err
	}
	return t, nil
}
