package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type UserProfileGormRepository struct {
	db *gorm.DB
}

func NewUserProfileGormRepository(db *gorm.DB) *UserProfileGormRepository {
	return &UserProfileGormRepository{db: db}
}

// プロフィールを取得、無ければ空で作成
func (r *UserProfileGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	var p model.UserProfile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("user_id = ?", userID).First(&p).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newProfile := model.UserProfile{UserID: userID}
		if err := tx.Create(&newProfile).Error; err != nil {
			//同時作成のuniqueIndex衝突は取り直す
			retryErr := tx.Where("user_id = ?", userID).First(&p).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		p = newProfile
		return nil
	})

	if err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

func (r *UserProfileGormRepository) Save(ctx context.Context, p model.UserProfile) error {
	if p.ID == 0 {
		return repo.ErrNotFound
	}
	return r.db.WithContext(ctx).Save(&p).Error
}
