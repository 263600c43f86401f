package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/manumittu/unitracker/core/report"
)

var ErrNotFound = errors.New("feedback not found")

type Repository interface {
	CreateFeedback(ctx context.Context, fb Feedback) (Feedback, error)
	// QueryAllFeedback returns all feedback, newest first.
	QueryAllFeedback(ctx context.Context) ([]Feedback, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, submittedBy string, nf NewFeedback) (Feedback, error) {
	now := time.Now().UTC()
	return svc.repo.CreateFeedback(ctx, Feedback{
		FacultyName: nf.FacultyName,
		Subject:     nf.Subject,
		Rating:      nf.Rating,
		Comments:    nf.Comments,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Feedback, error) {
	return svc.repo.QueryAllFeedback(ctx)
}

// FacultyRating is one faculty's aggregate feedback.
type FacultyRating struct {
	FacultyName   string  `json:"facultyName"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// Report aggregates all feedback into a per-faculty count and average rating.
func (svc *Service) Report(ctx context.Context) ([]FacultyRating, error) {
	all, err := svc.repo.QueryAllFeedback(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]report.Item, 0, len(all))
	for _, fb := range all {
		items = append(items, report.Item{Key: fb.FacultyName, Weight: float64(fb.Rating)})
	}

	groups := report.Aggregate(items)
	ratings := make([]FacultyRating, 0, len(groups))
	for _, g := range groups {
		ratings = append(ratings, FacultyRating{
			FacultyName:   g.Key,
			Count:         g.Count,
			AverageRating: g.Average(),
		})
	}
	return ratings, nil
}
