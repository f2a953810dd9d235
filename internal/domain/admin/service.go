package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"boattours/internal/domain/booking"
	"boattours/internal/pkg/validator"
)

const minPasswordLength = 6

type adminRepo interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id int64) (*Admin, error)
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Save(ctx context.Context, a *Admin) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
}

type tokenIssuer interface {
	GenerateToken(adminID int64, role string) (string, error)
}

type Service struct {
	repo    adminRepo
	tokens  tokenIssuer
	now     func() time.Time
	loggerf func(format string, args ...interface{})
}

func NewService(repo adminRepo, tokens tokenIssuer) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		now:     time.Now,
		loggerf: log.Printf,
	}
}

// Login checks the credentials of an active admin and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Admin, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !a.IsActive {
		return "", nil, ErrInactive
	}

	token, err := s.tokens.GenerateToken(a.ID, string(a.Role))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	now := s.now()
	if err := s.repo.TouchLogin(ctx, a.ID, now); err != nil {
		s.loggerf("level=warn msg=\"last login not recorded\" admin_id=%d err=%v", a.ID, err)
	} else {
		a.LastLoginAt = &now
	}
	s.loggerf("level=info msg=\"admin logged in\" admin_id=%d role=%s", a.ID, a.Role)
	return token, a, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Admin, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := fieldErrors(validator.Validate(req)); err != nil {
		return nil, err
	}
	if req.Role == "" {
		req.Role = RoleAdmin
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	a := &Admin{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=\"admin registered\" admin_id=%d role=%s", a.ID, a.Role)
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Admin, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

// IsActive reports whether the admin still exists and may act.
func (s *Service) IsActive(ctx context.Context, id int64) (bool, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return a.IsActive, nil
}

// Update lets a super admin edit anyone; a plain admin may only edit their own name and email.
func (s *Service) Update(ctx context.Context, actor Actor, id int64, req UpdateRequest) (*Admin, error) {
	if actor.Role != RoleSuperAdmin {
		if actor.ID != id {
			return nil, ErrForbidden
		}
		if req.Role != nil || req.IsActive != nil {
			return nil, ErrForbidden
		}
	}
	if actor.ID == id {
		if (req.IsActive != nil && !*req.IsActive) || (req.Role != nil && *req.Role != actor.Role) {
			return nil, ErrSelfModification
		}
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.Email != nil {
		normalized := normalizeEmail(*req.Email)
		req.Email = &normalized
	}
	if err := fieldErrors(validator.Validate(req)); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.Role != nil {
		a.Role = *req.Role
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=\"admin updated\" admin_id=%d by=%d", a.ID, actor.ID)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, actor Actor, id int64) error {
	if actor.ID == id {
		return ErrSelfModification
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerf("level=info msg=\"admin deleted\" admin_id=%d by=%d", id, actor.ID)
	return nil
}

// UpdatePassword verifies the current password, stores the new one and returns a fresh token.
func (s *Service) UpdatePassword(ctx context.Context, id int64, current, next string) (string, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(current)); err != nil {
		return "", ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		fe := booking.FieldErrors{}
		fe.Add("new_password", fmt.Sprintf("is too short (minimum is %d characters)", minPasswordLength))
		return "", fe.Err()
	}

	hash, err := hashPassword(next)
	if err != nil {
		return "", err
	}
	a.PasswordHash = hash
	if err := s.repo.Save(ctx, a); err != nil {
		return "", err
	}

	return s.tokens.GenerateToken(a.ID, string(a.Role))
}

// EnsureDefaultAdmin creates a super admin when the table is empty.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, password string) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	_, err = s.Register(ctx, RegisterRequest{
		Name:     "Super Admin",
		Email:    email,
		Password: password,
		Role:     RoleSuperAdmin,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, fmt.Errorf("create default admin: %w", err)
	}
	s.loggerf("level=info msg=\"default super admin created\" email=%s", normalizeEmail(email))
	return true, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func fieldErrors(msgs map[string]string) error {
	fe := booking.FieldErrors{}
	for field, msg := range msgs {
		fe.Add(field, msg)
	}
	return fe.Err()
}
