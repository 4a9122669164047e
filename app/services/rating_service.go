package services

import (
	"context"
	"errors"

	"github.com/andrisetya/go-catalog/app/repositories"
	"gorm.io/gorm"
)

// RatingService is the rating ledger façade: it owns the like/dislike state
// per (user, product) pair through its repository and reports refreshed
// aggregates with every mutation.
type RatingService struct {
	ratingRepo repositories.RatingRepositoryImpl
}

func NewRatingService(ratingRepo repositories.RatingRepositoryImpl) *RatingService {
	return &RatingService{ratingRepo: ratingRepo}
}

// Vote applies one toggle step for the authenticated user and returns the
// counts plus the user's state as of the same transaction.
func (s *RatingService) Vote(ctx context.Context, productID, userID uint, grade bool) (*RatingBlock, error) {
	summary, err := s.ratingRepo.Vote(ctx, productID, userID, grade)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &RatingBlock{
		LikeCount:         summary.LikeCount,
		DislikeCount:      summary.DislikeCount,
		CurrentUserRating: summary.UserRating,
	}, nil
}
