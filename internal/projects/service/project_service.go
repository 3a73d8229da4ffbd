package service

import (
	"context"
	"strings"
	"time"

	"github.com/veriflow-mrv/veriflow-backend/internal/auth"
	authdomain "github.com/veriflow-mrv/veriflow-backend/internal/auth/domain"
	"github.com/veriflow-mrv/veriflow-backend/internal/projects/domain"
)

// Store is the document-store surface the controller needs. The pgx
// implementation lives in the repository package; tests use an in-memory
// fake.
type Store interface {
	Insert(ctx context.Context, p *domain.Project) error
	Find(ctx context.Context, f domain.Filter) ([]domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	ApplyPatch(ctx context.Context, id string, patch map[string]interface{}) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
	ResolveOwner(ctx context.Context, ownerID string) (*domain.OwnerProfile, error)
}

// Recorder receives activity events after successful mutations. May be
// nil; failures inside the recorder must never surface here.
type Recorder interface {
	Record(ctx context.Context, userID, projectID, action, title string)
}

// mutableFields is the whitelist of attributes update may touch. owner is
// deliberately absent: ownership is fixed at creation.
var mutableFields = map[string]struct{}{
	"title":        {},
	"description":  {},
	"location":     {},
	"areaHectares": {},
	"projectType":  {},
	"startDate":    {},
	"endDate":      {},
	"status":       {},
	"metadata":     {},
	"images":       {},
	"documents":    {},
}

// ProjectService implements the project CRUD surface: validation,
// ownership enforcement and the partial-update policy.
type ProjectService struct {
	store  Store
	events Recorder
}

func New(store Store, events Recorder) *ProjectService {
	return &ProjectService{store: store, events: events}
}

type CreateInput struct {
	Title        string
	Description  string
	Owner        string
	Location     string
	AreaHectares *float64
	ProjectType  string
	StartDate    *time.Time
	EndDate      *time.Time
	Metadata     map[string]interface{}
}

// Create persists a new project. The authenticated requester always wins
// as owner; the body's owner field is only honored for gateless callers
// such as internal tooling.
func (s *ProjectService) Create(ctx context.Context, in CreateInput, requester *auth.Requester) (*domain.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.ErrTitleRequired
	}

	owner := in.Owner
	if requester != nil {
		owner = requester.ID
	}
	if owner == "" {
		return nil, domain.ErrOwnerRequired
	}

	p := &domain.Project{
		Title:        in.Title,
		Description:  in.Description,
		OwnerID:      owner,
		Location:     in.Location,
		AreaHectares: in.AreaHectares,
		ProjectType:  in.ProjectType,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		Metadata:     in.Metadata,
	}
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.record(ctx, owner, p.ID, "created", p.Title)
	return p, nil
}

// List returns projects matching the filter, newest first, with each
// owner reference expanded. Public: no requester involved.
func (s *ProjectService) List(ctx context.Context, f domain.Filter) ([]domain.Resolved, error) {
	items, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, err
	}

	resolved := make([]domain.Resolved, 0, len(items))
	owners := make(map[string]*domain.OwnerProfile)
	for _, p := range items {
		profile, ok := owners[p.OwnerID]
		if !ok {
			profile, err = s.store.ResolveOwner(ctx, p.OwnerID)
			if err != nil {
				return nil, err
			}
			owners[p.OwnerID] = profile
		}
		resolved = append(resolved, domain.Resolved{Project: p, Owner: *profile})
	}
	return resolved, nil
}

// Get returns a single project with its owner expanded. Public.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Resolved, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.ResolveOwner(ctx, p.OwnerID)
	if err != nil {
		return nil, err
	}
	return &domain.Resolved{Project: *p, Owner: *profile}, nil
}

// Update applies the whitelisted subset of the patch. Keys present with a
// null value overwrite; omitted keys leave the field untouched; anything
// outside the whitelist (notably owner) is silently dropped. The updated
// project is returned with the raw owner reference, not re-resolved.
func (s *ProjectService) Update(ctx context.Context, id string, patch map[string]interface{}, requester *auth.Requester) (*domain.Project, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canMutate(requester, p) {
		return nil, domain.ErrForbidden
	}

	allowed := make(map[string]interface{}, len(patch))
	for key, value := range patch {
		if _, ok := mutableFields[key]; ok {
			allowed[key] = value
		}
	}
	if len(allowed) == 0 {
		return p, nil
	}

	updated, err := s.store.ApplyPatch(ctx, id, allowed)
	if err != nil {
		return nil, err
	}

	s.record(ctx, requester.ID, id, "updated", updated.Title)
	return updated, nil
}

// Delete permanently removes a project. No soft delete.
func (s *ProjectService) Delete(ctx context.Context, id string, requester *auth.Requester) error {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(requester, p) {
		return domain.ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, requester.ID, id, "deleted", p.Title)
	return nil
}

// canMutate is the shared owner-or-admin rule for update and delete. A
// nil requester is rejected: the mutation routes always sit behind the
// auth gate, and the controller no longer extends trust to calls that
// somehow bypass it.
func canMutate(r *auth.Requester, p *domain.Project) bool {
	if r == nil {
		return false
	}
	return r.Role == authdomain.RoleAdmin || p.OwnerID == r.ID
}

func (s *ProjectService) record(ctx context.Context, userID, projectID, action, title string) {
	if s.events == nil || userID == "" {
		return
	}
	s.events.Record(ctx, userID, projectID, action, title)
}
