package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"weddinghub-backend/internal/domains/coupon/model"
	"weddinghub-backend/internal/domains/coupon/repository"
	"weddinghub-backend/pkg/cache"
	"weddinghub-backend/pkg/logger"
)

const (
	couponCacheKeyPrefix = "coupon:code:"
	couponCacheTTL       = 5 * time.Minute
)

type couponService struct {
	repo  repository.CouponRepository
	cache cache.Cache
}

// NewCouponService creates the coupon service
func NewCouponService(repo repository.CouponRepository, cache cache.Cache) CouponService {
	return &couponService{
		repo:  repo,
		cache: cache,
	}
}

// getCoupon reads coupon metadata through the cache.
// Consumption state (is_used, quantity, used_by) is always re-checked
// against the database by the guarded commit updates, so a slightly
// stale cache entry cannot cause double redemption.
func (s *couponService) getCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	cacheKey := couponCacheKeyPrefix + code

	if s.cache != nil {
		var cached model.Coupon
		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warn("coupon cache read failed", map[string]interface{}{
				"code":  code,
				"error": err.Error(),
			})
		} else if found {
			return &cached, nil
		}
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, coupon, couponCacheTTL); err != nil {
			logger.Warn("coupon cache write failed", map[string]interface{}{
				"code":  code,
				"error": err.Error(),
			})
		}
	}

	return coupon, nil
}

func (s *couponService) invalidateCoupon(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, couponCacheKeyPrefix+code); err != nil {
		logger.Warn("coupon cache invalidation failed", map[string]interface{}{
			"code":  code,
			"error": err.Error(),
		})
	}
}

func (s *couponService) ValidateCoupon(ctx context.Context, code string, userID uuid.UUID, subtotal decimal.Decimal) (*CouponValidation, error) {
	coupon, err := s.getCoupon(ctx, code)
	if err != nil {
		return nil, err
	}

	// Expiry is checked here and not re-checked at commit time.
	// An instrument expiring between validate and commit is still honored.
	if coupon.IsExpired(time.Now()) {
		return nil, model.ErrCouponExpired
	}

	switch coupon.Type {
	case model.CouponTypePersonal:
		if coupon.OwnerID == nil || *coupon.OwnerID != userID {
			return nil, model.ErrCouponNotOwned
		}
		if coupon.IsUsed {
			return nil, model.ErrCouponAlreadyUsed
		}

	case model.CouponTypeGlobal:
		if coupon.UsedByContains(userID) {
			return nil, model.ErrCouponAlreadyTaken
		}
		if coupon.Quantity <= 0 {
			return nil, model.ErrCouponExhausted
		}

	default:
		return nil, model.NewCouponError("CPN001",
			fmt.Sprintf("unknown coupon type %q", coupon.Type), nil)
	}

	return &CouponValidation{
		Coupon:         coupon,
		DiscountAmount: coupon.DiscountFor(subtotal),
	}, nil
}

func (s *couponService) ValidatePoints(ctx context.Context, userID uuid.UUID, points int64) (decimal.Decimal, error) {
	if points <= 0 {
		return decimal.Zero, model.ErrInvalidPointsAmount
	}

	balance, err := s.repo.GetPointsBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if balance.Balance < points {
		return decimal.Zero, model.ErrInsufficientPoints
	}

	return model.PointsToAmount(points), nil
}

func (s *couponService) CommitCoupon(ctx context.Context, coupon *model.Coupon, userID uuid.UUID) error {
	var committed bool
	var err error

	switch coupon.Type {
	case model.CouponTypePersonal:
		committed, err = s.repo.MarkPersonalUsed(ctx, coupon.ID)
	case model.CouponTypeGlobal:
		committed, err = s.repo.ConsumeGlobal(ctx, coupon.ID, userID)
	default:
		return model.NewCouponError("CPN001",
			fmt.Sprintf("unknown coupon type %q", coupon.Type), nil)
	}

	if err != nil {
		return model.NewCouponError("CPN009", "failed to commit coupon redemption", err)
	}
	if !committed {
		// Lost the race between validate and commit
		if coupon.Type == model.CouponTypePersonal {
			return model.ErrCouponAlreadyUsed
		}
		return model.ErrCouponExhausted
	}

	s.invalidateCoupon(ctx, coupon.Code)
	return nil
}

func (s *couponService) CommitPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	if points <= 0 {
		return model.ErrInvalidPointsAmount
	}

	deducted, err := s.repo.DeductPoints(ctx, userID, points)
	if err != nil {
		return model.NewCouponError("CPN010", "failed to commit points redemption", err)
	}
	if !deducted {
		return model.ErrInsufficientPoints
	}

	return nil
}

func (s *couponService) RefundPoints(ctx context.Context, userID uuid.UUID, points int64) error {
	if points <= 0 {
		return nil
	}
	return s.repo.RefundPoints(ctx, userID, points)
}
