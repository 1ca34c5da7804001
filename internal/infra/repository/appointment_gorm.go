package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) List(ctx context.Context) ([]model.Appointment, error) {
	var items []model.Appointment

	if err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.Appointment{}, err
	}

	return items, nil
}

func (r *AppointmentGormRepository) FindByID(ctx context.Context, id int64) (model.Appointment, error) {
	var a model.Appointment

	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Appointment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentGormRepository) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return model.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentGormRepository) Save(ctx context.Context, a model.Appointment) error {
	if a.ID == 0 {
		return repo.ErrNotFound
	}
	return r.db.WithContext(ctx).Save(&a).Error
}

func (r *AppointmentGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Appointment{}, id)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
