package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/staffdeck/directory-api/internal/employee/entity"
	"github.com/staffdeck/directory-api/pkg/utilities"
)

// Store is the persistence abstraction for employees. The sqlx repository
// satisfies it; tests use an in-memory fake.
type Store interface {
	List(ctx context.Context, f entity.Filter) ([]entity.Employee, int, error)
	FindByID(ctx context.Context, id string) (*entity.Employee, error)
	FindByEmail(ctx context.Context, email string) (*entity.Employee, error)
	FindAll(ctx context.Context) ([]entity.Employee, error)
	Insert(ctx context.Context, e *entity.Employee) error
	InsertBatch(ctx context.Context, list []entity.Employee) error
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Departments(ctx context.Context) ([]string, error)
	Titles(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
}

// Service owns the lifecycle and invariants of employee records.
type Service struct {
	store       Store
	logger      *zap.SugaredLogger
	departments []string

	now   func() time.Time
	newID func() string
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{
		store:       store,
		logger:      logger,
		departments: DepartmentsFromEnv(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       utilities.NewKSUID,
	}
}

// AllowedDepartments exposes the configured department set for boundary
// validation.
func (s *Service) AllowedDepartments() []string { return s.departments }

// PageResult is the list envelope returned to callers.
type PageResult struct {
	Employees  []entity.Employee `json:"employees"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// Create persists a new employee after the optimistic email uniqueness
// check. The storage unique constraint remains the integrity backstop; a
// conflict from either path surfaces as ErrDuplicateEmail.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Employee, error) {
	existing, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	avatar, stored := DeriveAvatar(in.CustomAvatar, in.FirstName, in.LastName)
	now := s.now()

	e := &entity.Employee{
		ID:           s.newID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Department:   in.Department,
		Title:        in.Title,
		Location:     in.Location,
		Avatar:       avatar,
		CustomAvatar: stored,
		HireDate:     dateOf(now),
		Salary:       in.Salary,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Manager != "" {
		m := in.Manager
		e.Manager = &m
	}

	if err := s.store.Insert(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Infow("created employee", "id", e.ID, "name", entity.FullName(e))
	return e, nil
}

// FindMany lists employees through the filter compiler and wraps the result
// with pagination metadata.
func (s *Service) FindMany(ctx context.Context, f entity.Filter) (*PageResult, error) {
	rows, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	page, limit, _ := f.Window()
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &PageResult{
		Employees:  rows,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// FindOne fetches by id.
func (s *Service) FindOne(ctx context.Context, id string) (*entity.Employee, error) {
	return s.store.FindByID(ctx, id)
}

// Update merges the partial input into the stored record. The avatar policy
// runs only when the request carried a customAvatar key; name inputs are the
// effective post-merge values.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.Employee, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		// a case-only change skips the lookup but is still persisted
		if !strings.EqualFold(*in.Email, e.Email) {
			other, err := s.store.FindByEmail(ctx, *in.Email)
			if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			if other != nil && other.ID != e.ID {
				return nil, ErrDuplicateEmail
			}
		}
		e.Email = *in.Email
	}

	if in.FirstName != nil {
		e.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		e.LastName = *in.LastName
	}
	if in.Phone != nil {
		e.Phone = *in.Phone
	}
	if in.Department != nil {
		e.Department = *in.Department
	}
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Location != nil {
		e.Location = *in.Location
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.Manager != nil {
		if *in.Manager == "" {
			e.Manager = nil
		} else {
			m := *in.Manager
			e.Manager = &m
		}
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}

	if in.CustomAvatar.Set {
		e.Avatar, e.CustomAvatar = DeriveAvatar(in.CustomAvatar.Value, e.FirstName, e.LastName)
	}

	e.UpdatedAt = s.now()
	if err := s.store.Update(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Infow("updated employee", "id", e.ID)
	return e, nil
}

// Remove hard-deletes by id.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Infow("removed employee", "id", id)
	return nil
}

// Departments returns the sorted distinct department facet.
func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.store.Departments(ctx)
}

// Titles returns the sorted distinct title facet.
func (s *Service) Titles(ctx context.Context) ([]string, error) {
	return s.store.Titles(ctx)
}

// Locations returns the sorted distinct location facet.
func (s *Service) Locations(ctx context.Context) ([]string, error) {
	return s.store.Locations(ctx)
}

// Stats aggregates the entire employee set.
func (s *Service) Stats(ctx context.Context) (*entity.StatsReport, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(all), nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
