package repository

import (
	"context"

	"app/internal/domain/model"
)

type AppointmentRepository interface {
	List(ctx context.Context) ([]model.Appointment, error)
	FindByID(ctx context.Context, id int64) (model.Appointment, error)
	Create(ctx context.Context, a model.Appointment) (model.Appointment, error)
	Save(ctx context.Context, a model.Appointment) error
	Delete(ctx context.Context, id int64) error
}
