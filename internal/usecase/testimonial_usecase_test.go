package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTestimonialUsecase_Create_Validation(t *testing.T) {
	tr := new(TestimonialRepoMock)
	uc := usecase.NewTestimonialUsecase(tr)

	_, err := uc.Create(context.Background(), "  ", "", "")

	ve, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "author is required", ve.Fields["author"])
	assert.Equal(t, "text is required", ve.Fields["text"])

	tr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTestimonialUsecase_Create_TrimsInput(t *testing.T) {
	tr := new(TestimonialRepoMock)
	uc := usecase.NewTestimonialUsecase(tr)

	tr.On("Create", mock.Anything, model.Testimonial{
		Author: "Ana",
		Text:   "Great service",
	}).Return(model.Testimonial{ID: 1, Author: "Ana", Text: "Great service"}, nil)

	out, err := uc.Create(context.Background(), " Ana ", " Great service ", "")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	tr.AssertExpectations(t)
}

func TestTestimonialUsecase_List(t *testing.T) {
	tr := new(TestimonialRepoMock)
	uc := usecase.NewTestimonialUsecase(tr)

	tr.On("List", mock.Anything).Return([]model.Testimonial{{ID: 1}, {ID: 2}}, nil)

	out, err := uc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}
