package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"mycarts/internal/domain"
	"mycarts/internal/intent"
	"mycarts/internal/logger"
	cartrepo "mycarts/internal/repository/cart"

	"github.com/google/uuid"
)

// Service exposes ownership-scoped cart operations. Every write is gated by the intent policy
// before it reaches the repository.
type Service struct {
	repo     cartRepo
	policy   intent.Checker
	activity activityRecorder
	logger   *slog.Logger
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	ListOpenByOwner(ctx context.Context, ownerID string) ([]domain.Cart, error)
	MergeAttributes(ctx context.Context, id string, patch map[string]interface{}) (*domain.Cart, error)
	Close(ctx context.Context, id string) (*domain.Cart, error)
}

type activityRecorder interface {
	Record(ctx context.Context, entry domain.ActivityLog) (*domain.ActivityLog, error)
}

// New builds a Service. A nil policy allows every intent; a nil activity recorder disables the log.
func New(repo cartrepo.Repository, policy intent.Checker, activity activityRecorder, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{repo: repo, policy: policy, activity: activity, logger: log}
}

// Create persists a new cart owned by subject once the policy allows it.
func (s *Service) Create(ctx context.Context, subject domain.User, attrs map[string]interface{}) (*domain.Cart, error) {
	if subject.ID == "" {
		return nil, errors.New("subject required")
	}
	attrs = domain.SanitizeAttributes(attrs)

	in := intent.Intent{
		Subject: subject,
		Op:      intent.OpCreate,
		Target:  intent.Target{Type: domain.CartType, Attributes: maps.Clone(attrs)},
		Data:    maps.Clone(attrs),
	}
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}

	owner := subject.ID
	created, err := s.repo.Create(ctx, cartrepo.CreateCartInput{OwnerID: &owner, Attributes: attrs})
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	s.record(ctx, in, created.ID)
	return created, nil
}

// ListMine returns the subject's open carts.
func (s *Service) ListMine(ctx context.Context, subject domain.User) ([]domain.Cart, error) {
	if subject.ID == "" {
		return []domain.Cart{}, nil
	}
	carts, err := s.repo.ListOpenByOwner(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return carts, nil
}

// GetMine returns the cart when it is open and owned by subject; anything else is ErrNotFound.
func (s *Service) GetMine(ctx context.Context, subject domain.User, id string) (*domain.Cart, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.IsOpen() || !c.OwnedBy(subject.ID) {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// UpdateMine shallow-merges patch into the subject's cart once the policy allows it.
func (s *Service) UpdateMine(ctx context.Context, subject domain.User, id string, patch map[string]interface{}) (*domain.Cart, error) {
	current, err := s.GetMine(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	patch = domain.SanitizeAttributes(patch)

	in := intent.Intent{
		Subject: subject,
		Op:      intent.OpUpdate,
		Target:  intent.Target{Type: domain.CartType, ID: current.ID, Attributes: current.Attributes},
		Data:    maps.Clone(patch),
	}
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}

	updated, err := s.repo.MergeAttributes(ctx, current.ID, patch)
	if err != nil {
		return nil, err
	}
	s.record(ctx, in, updated.ID)
	return updated, nil
}

// CloseMine soft-deletes the subject's cart once the policy allows it.
func (s *Service) CloseMine(ctx context.Context, subject domain.User, id string) (*domain.Cart, error) {
	current, err := s.GetMine(ctx, subject, id)
	if err != nil {
		return nil, err
	}

	in := intent.Intent{
		Subject: subject,
		Op:      intent.OpDelete,
		Target:  intent.Target{Type: domain.CartType, ID: current.ID, Attributes: current.Attributes},
	}
	if err := s.check(ctx, in); err != nil {
		return nil, err
	}

	closed, err := s.repo.Close(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, in, closed.ID)
	return closed, nil
}

func (s *Service) check(ctx context.Context, in intent.Intent) error {
	if s.policy == nil {
		return nil
	}
	verdict := s.policy.Check(ctx, in)
	if err := verdict.Err(); err != nil {
		s.logger.Info("intent rejected",
			"op", in.Op,
			"type", in.Target.Type,
			"target", in.Target.ID,
			"subject", in.Subject.Username,
			"code", verdict.Code,
			"reason", verdict.Reason,
		)
		return err
	}
	return nil
}

func (s *Service) record(ctx context.Context, in intent.Intent, targetID string) {
	if s.activity == nil {
		return
	}
	_, err := s.activity.Record(ctx, domain.ActivityLog{
		SubjectID:  in.Subject.ID,
		Op:         string(in.Op),
		TargetType: in.Target.Type,
		TargetID:   targetID,
		Data:       in.Data,
	})
	if err != nil {
		s.logger.Warn("record activity failed", "op", in.Op, "target", targetID, "err", err)
	}
}
