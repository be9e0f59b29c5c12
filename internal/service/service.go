// Package service holds the marketplace operations. Every operation takes the
// caller's auth.Identity explicitly and returns one of the sentinel errors in
// errors.go (possibly wrapped) on failure.
package service

import (
	"context"
	"time"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
	"github.com/suteetoe/marketplace/pkg/logger"
	"github.com/suteetoe/marketplace/pkg/metrics"
	"go.uber.org/zap"
)

type Service struct {
	repo    repository.Repository
	log     *zap.Logger
	metrics *metrics.Marketplace
	events  events.Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

func WithMetrics(m *metrics.Marketplace) Option {
	return func(s *Service) { s.metrics = m }
}

func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides time.Now, used for order timestamps and report windows
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(repo repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		log:    zap.NewNop(),
		events: events.Noop{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.log)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger(ctx).Warn("Failed to publish event",
			zap.String("event", event.Type),
			zap.Uint("order_id", event.OrderID),
			zap.Error(err))
	}
}

// vendorName resolves the name the caller's orders are snapshotted under. It
// reads the stored user rather than the session so a renamed vendor sees
// orders under the current name.
func (s *Service) vendorName(ctx context.Context, id auth.Identity) (string, error) {
	user, err := s.repo.Users().GetByID(ctx, id.UserID)
	if err != nil {
		return "", err
	}
	return user.DisplayName(), nil
}

// reportScope returns the orders a caller may see in reports and exports
func (s *Service) reportScope(ctx context.Context, id auth.Identity) (model.OrderScope, error) {
	switch {
	case !id.IsAuthenticated():
		return model.OrderScope{}, ErrForbidden
	case id.IsAdmin():
		return model.OrderScope{}, nil
	case id.Role == model.RoleVendor:
		name, err := s.vendorName(ctx, id)
		if err != nil {
			return model.OrderScope{}, err
		}
		return model.OrderScope{VendorName: name}, nil
	}
	return model.OrderScope{}, ErrForbidden
}
