package service

import (
	"context"
	"fmt"
	"time"

	"github.com/siscomando/api/internal/api/domain"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/pkg/idx"
)

// IssueService owns the issue collection.
type IssueService struct {
	Store store.Store
}

// NewIssue captures the client-settable fields of an issue document.
type NewIssue struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Register   string `json:"register"`
	Classifier int    `json:"classifier"`
	Ugat       string `json:"ugat"`
	Ugser      string `json:"ugser"`
	Deadline   *int   `json:"deadline"`
	Closed     bool   `json:"closed"`
}

func (r NewIssue) validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if r.Register == "" {
		return fmt.Errorf("%w: register is required", ErrInvalidRequest)
	}
	if r.Deadline != nil && *r.Deadline < 0 {
		return fmt.Errorf("%w: deadline must not be negative", ErrInvalidRequest)
	}
	return nil
}

func (s *IssueService) List(ctx context.Context, page store.Page) ([]domain.Issue, int, error) {
	return s.Store.Issues().ListIssues(ctx, page)
}

func (s *IssueService) Get(ctx context.Context, id string) (domain.Issue, error) {
	return s.Store.Issues().GetIssueByID(ctx, id)
}

func (s *IssueService) GetByRegister(ctx context.Context, register string) (domain.Issue, error) {
	return s.Store.Issues().GetIssueByRegister(ctx, register)
}

// CreateIssues validates and inserts a batch of issues atomically. The
// register normalization hook runs over the batch first, preserving each
// submitted register in register_orig before stripping separators.
func (s *IssueService) CreateIssues(ctx context.Context, reqs []NewIssue) ([]domain.Issue, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: at least one document is required", ErrInvalidRequest)
	}

	now := time.Now().UTC()
	issues := make([]*domain.Issue, 0, len(reqs))
	for _, req := range reqs {
		if err := req.validate(); err != nil {
			return nil, err
		}
		deadline := domain.DefaultDeadlineMinutes
		if req.Deadline != nil {
			deadline = *req.Deadline
		}
		issues = append(issues, &domain.Issue{
			ID:         idx.New().String(),
			Title:      req.Title,
			Body:       req.Body,
			Register:   req.Register,
			Classifier: req.Classifier,
			Ugat:       req.Ugat,
			Ugser:      req.Ugser,
			Deadline:   deadline,
			Closed:     req.Closed,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	hooks.NormalizeRegisters(issues)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, i := range issues {
			if err := tx.Issues().CreateIssue(ctx, *i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]domain.Issue, 0, len(issues))
	for _, i := range issues {
		created = append(created, *i)
	}
	return created, nil
}

func (s *IssueService) Update(ctx context.Context, issueID string, patch store.IssuePatch) (domain.Issue, error) {
	if err := s.Store.Issues().UpdateIssue(ctx, issueID, patch); err != nil {
		return domain.Issue{}, err
	}
	return s.Store.Issues().GetIssueByID(ctx, issueID)
}
