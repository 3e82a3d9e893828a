package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tastebite/internal/auth"
	"tastebite/internal/errors"
	"tastebite/internal/model"
	"tastebite/internal/otp"
	"tastebite/internal/repository"
)

const (
	bcryptCost = 10
	// MinPasswordLength applies wherever a password is created or replaced
	// (registration and reset). Login does not re-check length; the hash
	// comparison decides.
	MinPasswordLength = 8
)

// emailPattern is the single shared email check applied before any store access.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = fmt.Errorf("invalid email format")
	// ErrPasswordTooShort is returned when a new password is below the minimum.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	// ErrAddressRequired is returned when a required address is empty.
	ErrAddressRequired = fmt.Errorf("address is required")
)

// AuthService drives the OTP-gated credential lifecycle: registration, login,
// password reset and account deletion, each guarded by a purpose-tagged
// one-time code.
type AuthService interface {
	BeginRegistration(ctx context.Context, email, address string) error
	CompleteRegistration(ctx context.Context, email, code, name, password, address string) (string, *model.User, error)
	Login(ctx context.Context, email, password, code string) (string, *model.User, error)
	SendLoginCode(ctx context.Context, email string) error
	SendResetCode(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	SendDeleteCode(ctx context.Context, userID uuid.UUID) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, code string) error
	Profile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateAddress(ctx context.Context, userID uuid.UUID, address string) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	engine     *otp.Engine
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, engine *otp.Engine, jwtService *auth.JWTService) AuthService {
	return &authService{
		users:      users,
		engine:     engine,
		jwtService: jwtService,
	}
}

// BeginRegistration upserts a pending registration shell for the email and
// issues a register code to it. Emails that already completed registration
// are rejected before any code is issued.
func (s *authService) BeginRegistration(ctx context.Context, email, address string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(address) == "" {
		return ErrAddressRequired
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("find user: %w", err)
	}
	if existing != nil && existing.Registered() {
		return errors.ErrUserAlreadyExists
	}

	user, err := s.users.UpsertShell(ctx, email, address)
	if err != nil {
		return fmt.Errorf("upsert shell: %w", err)
	}
	return s.engine.Issue(ctx, user, otp.PurposeRegister)
}

// CompleteRegistration turns a shell into a full account. The registered check
// runs before the code is consumed so a correct code never burns on a record
// that already has a password.
func (s *authService) CompleteRegistration(ctx context.Context, email, code, name, password, address string) (string, *model.User, error) {
	if !emailPattern.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return "", nil, ErrPasswordTooShort
	}
	if strings.TrimSpace(address) == "" {
		return "", nil, ErrAddressRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and bad code are indistinguishable to the caller.
		return "", nil, errors.ErrInvalidCode
	}
	if user.Registered() {
		return "", nil, errors.ErrUserAlreadyExists
	}

	if err := s.engine.VerifyAndConsume(ctx, user, otp.PurposeRegister, code); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"name":          name,
		"password_hash": string(hash),
		"address":       address,
	}); err != nil {
		return "", nil, fmt.Errorf("complete registration: %w", err)
	}
	user.Name = name
	user.PasswordHash = string(hash)
	user.Address = address

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login authenticates with a password and, when a code is supplied, also
// verifies and consumes a login code first. Both factors must pass: a correct
// code never substitutes for the password check.
func (s *authService) Login(ctx context.Context, email, password, code string) (string, *model.User, error) {
	if !emailPattern.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.Registered() {
		return "", nil, errors.ErrUserNotFound
	}

	if code != "" {
		if err := s.engine.VerifyAndConsume(ctx, user, otp.PurposeLogin, code); err != nil {
			return "", nil, err
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, errors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// SendLoginCode issues a login code to a registered email.
func (s *authService) SendLoginCode(ctx context.Context, email string) error {
	return s.sendCodeByEmail(ctx, email, otp.PurposeLogin)
}

// SendResetCode issues a password reset code to a registered email.
func (s *authService) SendResetCode(ctx context.Context, email string) error {
	return s.sendCodeByEmail(ctx, email, otp.PurposeReset)
}

func (s *authService) sendCodeByEmail(ctx context.Context, email string, purpose otp.Purpose) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return errors.ErrUserNotFound
	}
	return s.engine.Issue(ctx, user, purpose)
}

// ResetPassword replaces the password after a verified reset code.
func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || !user.Registered() {
		return errors.ErrInvalidCode
	}

	if err := s.engine.VerifyAndConsume(ctx, user, otp.PurposeReset, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password_hash": string(hash),
	})
}

// SendDeleteCode issues a deletion code to the authenticated user's email.
func (s *authService) SendDeleteCode(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return errors.ErrUserNotFound
	}
	return s.engine.Issue(ctx, user, otp.PurposeDelete)
}

// DeleteAccount hard-deletes the record after a verified delete code. There is
// no tombstone; a subsequent lookup reports not-found.
func (s *authService) DeleteAccount(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return errors.ErrUserNotFound
	}
	if err := s.engine.VerifyAndConsume(ctx, user, otp.PurposeDelete, code); err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

// Profile returns the authenticated user's record.
func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// UpdateAddress replaces the delivery address.
func (s *authService) UpdateAddress(ctx context.Context, userID uuid.UUID, address string) (*model.User, error) {
	if strings.TrimSpace(address) == "" {
		return nil, ErrAddressRequired
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	if err := s.users.UpdateFields(ctx, user.ID, map[string]interface{}{"address": address}); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	user.Address = address
	return user, nil
}
