package repository

import (
	"context"

	"app/internal/domain/model"
)

type TestimonialRepository interface {
	List(ctx context.Context) ([]model.Testimonial, error)
	Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error)
}
