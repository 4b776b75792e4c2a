package service

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type userBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req api.UserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req api.UserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ActivateUser(ctx context.Context, id string) error
	DeactivateUser(ctx context.Context, id string) error
	BulkUserAction(ctx context.Context, action string, ids []string) error
	UserStatistics(ctx context.Context) (*models.UserStatistics, error)
	Roles(ctx context.Context) ([]models.Role, error)
}

// UserService owns the user administration view.
type UserService struct {
	backend userBackend
	logger  *zap.Logger

	mu    sync.Mutex
	users []models.User
	roles []models.Role
}

func NewUserService(backend userBackend, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{backend: backend, logger: logger}
}

var userAccessors = listview.Accessors[models.User]{
	SearchFields: []func(models.User) string{
		func(u models.User) string { return u.Name },
		func(u models.User) string { return u.Email },
	},
	FilterFields: map[string]func(models.User) string{
		"role": func(u models.User) string { return u.Role },
		"status": func(u models.User) string {
			if u.IsActive {
				return "active"
			}
			return "inactive"
		},
	},
	SortFields: map[string]func(a, b models.User) int{
		"name":  func(a, b models.User) int { return compareStrings(a.Name, b.Name) },
		"email": func(a, b models.User) int { return compareStrings(a.Email, b.Email) },
		"role":  func(a, b models.User) int { return compareStrings(a.Role, b.Role) },
	},
}

// Reload replaces the collection wholesale from the backend.
func (s *UserService) Reload(ctx context.Context) error {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// Page applies search, filter, sort and pagination over the cached users.
func (s *UserService) Page(q listview.Query) listview.Page[models.User] {
	s.mu.Lock()
	users := make([]models.User, len(s.users))
	copy(users, s.users)
	s.mu.Unlock()
	return listview.Apply(users, q, userAccessors)
}

// Roles returns the assignable roles, cached after the first fetch.
func (s *UserService) Roles(ctx context.Context) ([]models.Role, error) {
	s.mu.Lock()
	if len(s.roles) > 0 {
		roles := make([]models.Role, len(s.roles))
		copy(roles, s.roles)
		s.mu.Unlock()
		return roles, nil
	}
	s.mu.Unlock()

	roles, err := s.backend.Roles(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.roles = roles
	s.mu.Unlock()
	return roles, nil
}

func (s *UserService) Create(ctx context.Context, d validation.UserDraft) (*models.User, error) {
	if result := validation.ValidateUser(d); !result.Valid {
		return nil, validationError(result)
	}
	user, err := s.backend.CreateUser(ctx, userRequest(d))
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("id", user.ID), zap.String("role", user.Role))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, d validation.UserDraft) (*models.User, error) {
	if result := validation.ValidateUser(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateUser(ctx, id, userRequest(d))
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.backend.DeleteUser(ctx, id)
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	if active {
		return s.backend.ActivateUser(ctx, id)
	}
	return s.backend.DeactivateUser(ctx, id)
}

// BulkAction applies activate, deactivate or delete to a selection.
func (s *UserService) BulkAction(ctx context.Context, action string, ids []string) error {
	switch action {
	case "activate", "deactivate", "delete":
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown bulk action "+action)
	}
	if len(ids) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no users selected")
	}
	if err := s.backend.BulkUserAction(ctx, action, ids); err != nil {
		return err
	}
	s.logger.Info("bulk user action", zap.String("action", action), zap.Int("count", len(ids)))
	return nil
}

func (s *UserService) Statistics(ctx context.Context) (*models.UserStatistics, error) {
	return s.backend.UserStatistics(ctx)
}

func userRequest(d validation.UserDraft) api.UserRequest {
	return api.UserRequest{
		Name:  strings.TrimSpace(d.Name),
		Email: strings.TrimSpace(d.Email),
		Role:  d.Role,
	}
}
