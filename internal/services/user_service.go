package services

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmoreau/cvfolio/internal/apperr"
	"github.com/tmoreau/cvfolio/internal/models"
	"github.com/tmoreau/cvfolio/internal/repository"
)

const bcryptCost = 12

// UserService owns credential records: creation, password hashing and
// verification, and the single-admin invariant.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUser registers a new user. The password is hashed before it
// reaches the store; plaintext is never persisted or logged. Creating a
// second admin fails with a validation error (the partial unique index
// backstops this check against races).
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*models.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if email == "" {
		email = username
	}
	if isAdmin {
		if _, err := s.users.FindAdmin(ctx); err == nil {
			return nil, apperr.New(apperr.Validation, "an administrator already exists")
		} else if apperr.KindOf(err) != apperr.NotFound {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "failed to hash password", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		IsAdmin:  isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyPassword compares a candidate against the stored hash. A wrong
// password returns false, never an error.
func (s *UserService) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// ChangePassword re-verifies the current password, enforces the
// complexity policy and rejects reusing the old password.
func (s *UserService) ChangePassword(ctx context.Context, user *models.User, current, newPassword string) error {
	if !s.VerifyPassword(user, current) {
		return apperr.New(apperr.Authentication, "Invalid credentials")
	}
	if current == newPassword {
		return apperr.New(apperr.Validation, "new password must differ from the current one")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperr.Wrap(apperr.Persistence, "failed to hash password", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// TransferAdmin moves the admin flag from the caller to the target
// user. The flag is dropped first so the partial unique index accepts
// the new admin; if promoting the target fails the caller's flag is
// restored best-effort.
func (s *UserService) TransferAdmin(ctx context.Context, caller *models.User, targetEmail string) error {
	if !caller.IsAdmin {
		return apperr.New(apperr.Permission, "only the administrator can transfer the admin role")
	}
	target, err := s.users.FindByEmail(ctx, targetEmail)
	if err != nil {
		return err
	}
	if target.ID == caller.ID || target.IsAdmin {
		return apperr.New(apperr.Conflict, "target user is already the administrator")
	}

	if err := s.users.SetAdmin(ctx, caller.ID, false); err != nil {
		return err
	}
	if err := s.users.SetAdmin(ctx, target.ID, true); err != nil {
		if restoreErr := s.users.SetAdmin(ctx, caller.ID, true); restoreErr != nil {
			return apperr.Wrap(apperr.Persistence, "admin transfer failed and rollback failed", restoreErr)
		}
		return err
	}
	return nil
}

// FindByEmail exposes credential lookup to the login flow.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// FindAdmin returns the current admin user, if any.
func (s *UserService) FindAdmin(ctx context.Context) (*models.User, error) {
	return s.users.FindAdmin(ctx)
}

// ValidatePassword enforces the password policy: at least 8 characters
// with lower case, upper case and a digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperr.New(apperr.Validation, "password must be at least 8 characters")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	missing := make([]string, 0, 3)
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !digit {
		missing = append(missing, "a digit")
	}
	if len(missing) > 0 {
		return apperr.New(apperr.Validation, "password must contain "+strings.Join(missing, ", "))
	}
	return nil
}
