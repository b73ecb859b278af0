package review

import (
	"context"
	"errors"
	"math"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type CreateReviewInput struct {
	Actor     domain.Actor
	BookingID string
	Rating    int
	Comment   string
}

type CreateReview struct {
	repo domain.ReviewRepository
}

func NewCreateReview(repo domain.ReviewRepository) *CreateReview {
	return &CreateReview{repo: repo}
}

// Execute: só o cliente dono, só depois de concluído, uma vez por agendamento.
func (uc *CreateReview) Execute(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, httperr.NewBadRequest("invalid_rating", "rating must be between 1 and 5")
	}

	b, err := uc.repo.GetBooking(ctx, in.BookingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, httperr.Database("load booking", err)
	}

	if !in.Actor.IsCustomer() {
		return nil, httperr.NewForbidden("customers_only", "only the customer can review a booking")
	}
	if b.CustomerID != in.Actor.ID {
		return nil, httperr.NewNotFound("booking_not_found", "booking not found")
	}
	if domain.Status(b.Status) != domain.StatusCompleted {
		return nil, httperr.NewBadRequest("booking_not_completed", "only completed bookings can be reviewed")
	}

	existing, err := uc.repo.FindReviewByBooking(ctx, b.ID)
	if err != nil {
		return nil, httperr.Database("find review", err)
	}
	if existing != nil {
		return nil, httperr.NewConflict("already_reviewed", "this booking was already reviewed")
	}

	r := &models.Review{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		StylistID:  b.StylistID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
	}
	if err := uc.repo.CreateReview(ctx, r); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.NewConflict("already_reviewed", "this booking was already reviewed")
		}
		return nil, httperr.Database("create review", err)
	}
	return r, nil
}

// ------------------------------------------------------
// List
// ------------------------------------------------------

type StylistReviews struct {
	Reviews       []models.Review
	Total         int64
	AverageRating float64
	Page          int
	Limit         int
}

type ListStylistReviews struct {
	repo domain.ReviewRepository
}

func NewListStylistReviews(repo domain.ReviewRepository) *ListStylistReviews {
	return &ListStylistReviews{repo: repo}
}

func (uc *ListStylistReviews) Execute(ctx context.Context, stylistID string, page, limit int) (*StylistReviews, error) {
	u, err := uc.repo.GetUser(ctx, stylistID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && u.Role != models.RoleStylist) {
		return nil, httperr.NewNotFound("stylist_not_found", "stylist not found")
	}
	if err != nil {
		return nil, httperr.Database("load stylist", err)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = domain.DefaultPageLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}

	rows, total, err := uc.repo.ListStylistReviews(ctx, stylistID, page, limit)
	if err != nil {
		return nil, httperr.Database("list reviews", err)
	}
	avg, _, err := uc.repo.StylistRating(ctx, stylistID)
	if err != nil {
		return nil, httperr.Database("stylist rating", err)
	}
	if rows == nil {
		rows = []models.Review{}
	}

	return &StylistReviews{
		Reviews:       rows,
		Total:         total,
		AverageRating: math.Round(avg*100) / 100,
		Page:          page,
		Limit:         limit,
	}, nil
}
