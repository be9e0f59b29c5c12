package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
)

// AddReview posts a consumer's 1 to 5 rating of a product
func (s *Service) AddReview(ctx context.Context, id auth.Identity, productID uint, rating int, text string) (*model.ProductReview, error) {
	if !id.HasRole(model.RoleConsumer) {
		return nil, ErrForbidden
	}
	if rating < 1 || rating > 5 {
		return nil, invalid("Rating must be between 1 and 5")
	}
	if _, err := s.repo.Products().GetByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &model.ProductReview{
		UserID:    id.UserID,
		ProductID: productID,
		Rating:    rating,
		Text:      strings.TrimSpace(text),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Reviews().Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return review, nil
}
