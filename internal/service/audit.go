package service

import (
	"context"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
	"go.uber.org/zap"
)

const (
	ActionRegister      = "register"
	ActionLogin         = "login"
	ActionLogout        = "logout"
	ActionCreateAdmin   = "create_admin"
	ActionProductCreate = "product_create"
	ActionProductUpdate = "product_update"
	ActionProductDelete = "product_delete"
	ActionOrderPlaced   = "order_placed"
	ActionOrderStatus   = "order_status"
	ActionPayment       = "payment"
)

const defaultAuditLimit = 100

// audit appends an entry. A failed write is logged and otherwise ignored.
func (s *Service) audit(ctx context.Context, actor auth.Identity, action, description string) {
	entry := &model.AuditLog{
		Action:      action,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if actor.IsAuthenticated() {
		actorID := actor.UserID
		entry.ActorID = &actorID
	}

	if err := s.repo.AuditLogs().Append(ctx, entry); err != nil {
		s.logger(ctx).Warn("Failed to write audit log",
			zap.String("action", action),
			zap.Uint("actor_id", actor.UserID),
			zap.Error(err))
	}
}

// AuditLog returns the latest entries, newest first. Admins only.
func (s *Service) AuditLog(ctx context.Context, id auth.Identity, limit int) ([]model.AuditLog, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.repo.AuditLogs().Latest(ctx, limit)
}
