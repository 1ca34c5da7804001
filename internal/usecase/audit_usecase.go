package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const auditListMaxLimit = 200

type AuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditUsecase(ar repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: ar}
}

type AuditListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	Limit        int
	Offset       int
}

// List は管理画面向けの監査ログ一覧。新しい順で返る。
func (u *AuditUsecase) List(ctx context.Context, in AuditListInput) ([]model.AuditLog, error) {
	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}

	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}

	if f.Limit <= 0 || f.Limit > auditListMaxLimit {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}
