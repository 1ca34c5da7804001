package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type TestimonialUsecase struct {
	testimonialRepo repo.TestimonialRepository
}

func NewTestimonialUsecase(tr repo.TestimonialRepository) *TestimonialUsecase {
	return &TestimonialUsecase{testimonialRepo: tr}
}

func (u *TestimonialUsecase) List(ctx context.Context) ([]model.Testimonial, error) {
	list, err := u.testimonialRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *TestimonialUsecase) Create(ctx context.Context, author, text, photo string) (model.Testimonial, error) {
	fields := map[string]string{}
	if strings.TrimSpace(author) == "" {
		fields["author"] = "author is required"
	}
	if strings.TrimSpace(text) == "" {
		fields["text"] = "text is required"
	}
	if len(fields) > 0 {
		return model.Testimonial{}, NewValidationError(fields)
	}

	created, err := u.testimonialRepo.Create(ctx, model.Testimonial{
		Author: strings.TrimSpace(author),
		Text:   strings.TrimSpace(text),
		Photo:  photo,
	})
	if err != nil {
		return model.Testimonial{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}
