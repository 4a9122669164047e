package repositories

import (
	"context"
	"errors"

	"github.com/andrisetya/go-catalog/app/models"
	"gorm.io/gorm"
)

const (
	GradeLike    = "like"
	GradeDislike = "dislike"
)

// RatingSummary reports the aggregate counts and the acting or viewing
// user's own state, all read at one consistent point.
type RatingSummary struct {
	LikeCount    int64
	DislikeCount int64
	UserRating   *string
}

type RatingRepositoryImpl interface {
	Vote(ctx context.Context, productID, userID uint, grade bool) (*RatingSummary, error)
	Summary(ctx context.Context, productID uint, userID *uint) (*RatingSummary, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepositoryImpl {
	return &ratingRepository{db: db}
}

// Vote applies one step of the toggle state machine inside a single
// transaction:
//
//	no row        -> insert with grade
//	same grade    -> delete (toggle off)
//	other grade   -> update in place (swap)
//
// The unique index on (user_id, product_id) backs the insert: when two votes
// from the same user race, the losing insert surfaces gorm.ErrDuplicatedKey
// and is corrected into an update of the surviving row, so a second row can
// never appear. Returns gorm.ErrRecordNotFound for an unknown product.
func (r *ratingRepository) Vote(ctx context.Context, productID, userID uint, grade bool) (*RatingSummary, error) {
	var summary *RatingSummary

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productCount int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&productCount).Error; err != nil {
			return err
		}
		if productCount == 0 {
			return gorm.ErrRecordNotFound
		}

		var current models.Rating
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := models.Rating{UserID: userID, ProductID: productID, Grade: grade}
			if err := tx.Create(&rating).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// Lost a race against a concurrent vote from the same
				// user. The unique index kept a single row; settle its
				// grade to this request's vote.
				if err := tx.Model(&models.Rating{}).
					Where("user_id = ? AND product_id = ?", userID, productID).
					Update("grade", grade).Error; err != nil {
					return err
				}
			}
		case err != nil:
			return err
		case current.Grade == grade:
			if err := tx.Delete(&current).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&current).Update("grade", grade).Error; err != nil {
				return err
			}
		}

		counted, err := summarize(tx, productID, &userID)
		if err != nil {
			return err
		}
		summary = counted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// Summary is the read-only counterpart of Vote, used when rendering a single
// product. A nil userID means an anonymous viewer.
func (r *ratingRepository) Summary(ctx context.Context, productID uint, userID *uint) (*RatingSummary, error) {
	var summary *RatingSummary
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counted, err := summarize(tx, productID, userID)
		if err != nil {
			return err
		}
		summary = counted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func summarize(tx *gorm.DB, productID uint, userID *uint) (*RatingSummary, error) {
	var summary RatingSummary

	if err := tx.Model(&models.Rating{}).
		Where("product_id = ? AND grade = ?", productID, true).
		Count(&summary.LikeCount).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Rating{}).
		Where("product_id = ? AND grade = ?", productID, false).
		Count(&summary.DislikeCount).Error; err != nil {
		return nil, err
	}

	if userID != nil {
		var current models.Rating
		err := tx.Where("user_id = ? AND product_id = ?", *userID, productID).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no vote from this user
		case err != nil:
			return nil, err
		default:
			grade := GradeDislike
			if current.Grade {
				grade = GradeLike
			}
			summary.UserRating = &grade
		}
	}

	return &summary, nil
}
