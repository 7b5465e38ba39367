package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-service/apperrors"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// RewardThresholdMinorUnits is the pre-discount order total, in minor
	// currency units, that earns the customer a coupon for their next order.
	RewardThresholdMinorUnits int64 = 1000000

	rewardDiscountPercentage = 10
	rewardValidity           = 30 * 24 * time.Hour
)

// CouponService owns the one-active-coupon-per-user lifecycle.
type CouponService struct {
	coupons repository.CouponRepository
}

// NewCouponService creates a new CouponService.
func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// GetActive returns the user's active coupon, or nil when there is none.
func (s *CouponService) GetActive(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	coupon, err := s.coupons.FindActiveByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return coupon, nil
}

// Validate resolves a code for the given user. An expired coupon is flipped
// inactive as a side effect, so every later validation reports not-found
// rather than expired.
func (s *CouponService) Validate(ctx context.Context, code string, userID primitive.ObjectID) (*models.ValidatedCoupon, error) {
	coupon, err := s.coupons.FindActiveByCodeAndUser(ctx, code, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrCouponNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if coupon.Expired(time.Now()) {
		if err := s.coupons.Deactivate(ctx, coupon.Code, userID); err != nil {
			logger.Error(ctx, "Failed to deactivate expired coupon", err, zap.String("code", coupon.Code))
		}
		return nil, apperrors.ErrCouponExpired
	}

	return &models.ValidatedCoupon{
		Message:            "Coupon is valid",
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	}, nil
}

// IssueReward grants the user a fresh reward coupon, superseding any coupon
// they already hold.
func (s *CouponService) IssueReward(ctx context.Context, userID primitive.ObjectID) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:               newRewardCode(),
		DiscountPercentage: rewardDiscountPercentage,
		ExpirationDate:     time.Now().Add(rewardValidity),
		IsActive:           true,
		UserID:             userID,
	}
	if err := s.coupons.ReplaceForUser(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to issue reward coupon: %w", err)
	}
	return coupon, nil
}

// newRewardCode builds a short human-readable code. Uniqueness is enforced
// by the index on code; uuid entropy makes collisions negligible.
func newRewardCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GIFT" + strings.ToUpper(raw[:6])
}
