package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tastebite/internal/errors"
	"tastebite/internal/mail"
	"tastebite/internal/model"
	"tastebite/internal/repository"
)

const (
	// CodeTTL is how long an issued code stays valid.
	CodeTTL = 2 * time.Minute
	// DeliveryTimeout bounds how long issuance waits on the mail relay. A
	// timeout is reported as failure even though the code is already
	// persisted; a resend overwrites it with a fresh code.
	DeliveryTimeout = 30 * time.Second

	bcryptCost = 10
)

// Purpose tags a code to the single transition it permits.
type Purpose string

const (
	PurposeRegister Purpose = "register"
	PurposeLogin    Purpose = "login"
	PurposeReset    Purpose = "reset"
	PurposeDelete   Purpose = "delete"
)

// slot maps a purpose to the user record columns holding its code. Register
// and login share the login slot: a pending shell proves email ownership with
// the same code family that later gates second-factor logins.
func (p Purpose) slot() (hashCol, expiresCol string) {
	switch p {
	case PurposeReset:
		return "reset_code_hash", "reset_code_expires"
	case PurposeDelete:
		return "delete_code_hash", "delete_code_expires"
	default:
		return "login_code_hash", "login_code_expires"
	}
}

// read returns the stored hash and expiry for the purpose's slot.
func (p Purpose) read(u *model.User) (hash string, expires *time.Time) {
	switch p {
	case PurposeReset:
		return u.ResetCodeHash, u.ResetCodeExpires
	case PurposeDelete:
		return u.DeleteCodeHash, u.DeleteCodeExpires
	default:
		return u.LoginCodeHash, u.LoginCodeExpires
	}
}

// Engine generates, stores and verifies one-time codes for all four purposes.
type Engine struct {
	users   repository.UserRepository
	sender  mail.Sender
	limiter *Limiter
}

// NewEngine creates a code engine.
func NewEngine(users repository.UserRepository, sender mail.Sender, limiter *Limiter) *Engine {
	return &Engine{users: users, sender: sender, limiter: limiter}
}

// Issue generates a fresh 6-digit code for the user and purpose, persists its
// hash with a CodeTTL expiry (overwriting any unconsumed code in that slot),
// and dispatches it by email. Issuance preconditions:
//   - register: the record must not have a password yet
//   - login, reset: the record must have a password
//   - delete: none beyond the caller holding a valid session
func (e *Engine) Issue(ctx context.Context, user *model.User, purpose Purpose) error {
	switch purpose {
	case PurposeRegister:
		if user.Registered() {
			return errors.ErrUserAlreadyExists
		}
	case PurposeLogin, PurposeReset:
		if !user.Registered() {
			return errors.ErrUserNotFound
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Allow(ctx, user.Email); err != nil {
			return err
		}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	hashCol, expiresCol := purpose.slot()
	expires := time.Now().Add(CodeTTL)
	if err := e.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		hashCol:    string(hash),
		expiresCol: expires,
	}); err != nil {
		return fmt.Errorf("store code: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, DeliveryTimeout)
	defer cancel()
	subject, body := message(purpose, code)
	if err := e.sender.Send(sendCtx, user.Email, subject, body); err != nil {
		return errors.ErrDeliveryFailed
	}
	return nil
}

// VerifyAndConsume checks the candidate against the stored code for the
// purpose and clears the slot on success, making codes single-use. Every
// failure mode (no code stored, expired, mismatch) collapses into the one
// generic error so callers cannot enumerate which check failed. No state is
// mutated on failure.
func (e *Engine) VerifyAndConsume(ctx context.Context, user *model.User, purpose Purpose, candidate string) error {
	hash, expires := purpose.read(user)
	if hash == "" || expires == nil || !expires.After(time.Now()) {
		return errors.ErrInvalidCode
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) != nil {
		return errors.ErrInvalidCode
	}

	hashCol, expiresCol := purpose.slot()
	if err := e.users.UpdateFields(ctx, user.ID, map[string]interface{}{
		hashCol:    "",
		expiresCol: nil,
	}); err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	return nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// message builds the purpose-specific subject and body.
func message(purpose Purpose, code string) (subject, body string) {
	var what string
	switch purpose {
	case PurposeReset:
		subject, what = "Password Reset OTP", "password reset"
	case PurposeDelete:
		subject, what = "Account Deletion OTP", "account deletion"
	default:
		subject, what = "Account Verification OTP", "account verification"
	}
	body = fmt.Sprintf("Your OTP for %s is %s. It is valid for 2 minutes.", what, code)
	return subject, body
}
