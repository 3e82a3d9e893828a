package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tastebite/internal/auth"
	"tastebite/internal/errors"
	"tastebite/internal/model"
	"tastebite/internal/otp"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpsertShell(ctx context.Context, email, address string) (*model.User, error) {
	args := m.Called(ctx, email, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSender is a mock implementation of mail.Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

const (
	testEmail    = "test@example.com"
	testPassword = "password123"
	testCode     = "123456"
)

func newTestService(repo *MockUserRepository, sender *MockSender) AuthService {
	engine := otp.NewEngine(repo, sender, nil)
	return NewAuthService(repo, engine, auth.NewJWTService("test-secret"))
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func userWithLoginCode(t *testing.T, registered bool) *model.User {
	t.Helper()
	expires := time.Now().Add(time.Minute)
	u := &model.User{
		ID:               uuid.New(),
		Email:            testEmail,
		Address:          "42 Main St",
		LoginCodeHash:    hashOf(t, testCode),
		LoginCodeExpires: &expires,
	}
	if registered {
		u.Name = "Test User"
		u.PasswordHash = hashOf(t, testPassword)
	}
	return u
}

func TestAuthService_BeginRegistration(t *testing.T) {
	t.Run("upserts shell and sends register code", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockSender := new(MockSender)
		shell := &model.User{ID: uuid.New(), Email: testEmail}

		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("UpsertShell", mock.Anything, testEmail, "42 Main St").Return(shell, nil)
		mockRepo.On("UpdateFields", mock.Anything, shell.ID, mock.Anything).Return(nil)
		mockSender.On("Send", mock.Anything, testEmail, "Account Verification OTP", mock.Anything).Return(nil)

		svc := newTestService(mockRepo, mockSender)
		err := svc.BeginRegistration(context.Background(), testEmail, "42 Main St")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockSender.AssertExpectations(t)
	})

	t.Run("rejects an email that already has a password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByEmail", mock.Anything, testEmail).
			Return(&model.User{Email: testEmail, PasswordHash: "x"}, nil)

		svc := newTestService(mockRepo, new(MockSender))
		err := svc.BeginRegistration(context.Background(), testEmail, "42 Main St")

		assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)
		mockRepo.AssertNotCalled(t, "UpsertShell", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed email before any store access", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newTestService(mockRepo, new(MockSender))

		err := svc.BeginRegistration(context.Background(), "not-an-email", "42 Main St")

		assert.ErrorIs(t, err, ErrInvalidEmail)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_CompleteRegistration(t *testing.T) {
	t.Run("shell with correct code becomes a full account", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		shell := userWithLoginCode(t, false)

		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(shell, nil)
		// consume the code slot, then set the credentials
		mockRepo.On("UpdateFields", mock.Anything, shell.ID, map[string]interface{}{
			"login_code_hash":    "",
			"login_code_expires": nil,
		}).Return(nil)
		mockRepo.On("UpdateFields", mock.Anything, shell.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, ok := fields["password_hash"]
			return ok
		})).Return(nil)

		svc := newTestService(mockRepo, new(MockSender))
		token, user, err := svc.CompleteRegistration(context.Background(), testEmail, testCode, "Test User", testPassword, "42 Main St")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, user.Registered())
		mockRepo.AssertExpectations(t)
	})

	t.Run("fails closed when the record already has a password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		existing := userWithLoginCode(t, true) // correct, unexpired code present

		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(existing, nil)

		svc := newTestService(mockRepo, new(MockSender))
		token, user, err := svc.CompleteRegistration(context.Background(), testEmail, testCode, "Hijack", testPassword, "42 Main St")

		assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)
		assert.Empty(t, token)
		assert.Nil(t, user)
		// the valid code must not be consumed on the failed attempt
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong code yields the generic OTP error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		shell := userWithLoginCode(t, false)
		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(shell, nil)

		svc := newTestService(mockRepo, new(MockSender))
		_, _, err := svc.CompleteRegistration(context.Background(), testEmail, "000000", "Test User", testPassword, "42 Main St")

		assert.ErrorIs(t, err, errors.ErrInvalidCode)
	})

	t.Run("short password rejected before store access", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newTestService(mockRepo, new(MockSender))

		_, _, err := svc.CompleteRegistration(context.Background(), testEmail, testCode, "Test User", "short", "42 Main St")

		assert.ErrorIs(t, err, ErrPasswordTooShort)
		mockRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	consumeLogin := func(mockRepo *MockUserRepository, id uuid.UUID) {
		mockRepo.On("UpdateFields", mock.Anything, id, map[string]interface{}{
			"login_code_hash":    "",
			"login_code_expires": nil,
		}).Return(nil)
	}

	tests := []struct {
		name          string
		password      string
		code          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "password only succeeds",
			password: testPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, testEmail).Return(userWithLoginCode(t, true), nil)
			},
		},
		{
			name:     "password and correct code succeed",
			password: testPassword,
			code:     testCode,
			setupMock: func(m *MockUserRepository) {
				u := userWithLoginCode(t, true)
				m.On("FindByEmail", mock.Anything, testEmail).Return(u, nil)
				consumeLogin(m, u.ID)
			},
		},
		{
			name:     "correct code cannot stand in for the password",
			password: "wrong-password",
			code:     testCode,
			setupMock: func(m *MockUserRepository) {
				u := userWithLoginCode(t, true)
				m.On("FindByEmail", mock.Anything, testEmail).Return(u, nil)
				consumeLogin(m, u.ID)
			},
			expectedError: errors.ErrInvalidCredentials,
		},
		{
			name:     "correct password cannot stand in for a supplied code",
			password: testPassword,
			code:     "000000",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, testEmail).Return(userWithLoginCode(t, true), nil)
			},
			expectedError: errors.ErrInvalidCode,
		},
		{
			name:     "unknown email",
			password: testPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, testEmail).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name:     "pending shell cannot log in",
			password: testPassword,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, testEmail).Return(userWithLoginCode(t, false), nil)
			},
			expectedError: errors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := newTestService(mockRepo, new(MockSender))
			token, user, err := svc.Login(context.Background(), testEmail, tt.password, tt.code)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, testEmail, user.Email)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("verified code replaces the password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		expires := time.Now().Add(time.Minute)
		user := &model.User{
			ID:               uuid.New(),
			Email:            testEmail,
			PasswordHash:     hashOf(t, "old-password"),
			ResetCodeHash:    hashOf(t, testCode),
			ResetCodeExpires: &expires,
		}
		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(user, nil)
		mockRepo.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{
			"reset_code_hash":    "",
			"reset_code_expires": nil,
		}).Return(nil)
		mockRepo.On("UpdateFields", mock.Anything, user.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, ok := fields["password_hash"]
			return ok
		})).Return(nil)

		svc := newTestService(mockRepo, new(MockSender))
		err := svc.ResetPassword(context.Background(), testEmail, testCode, "new-password-1")

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong code leaves the password untouched", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		expires := time.Now().Add(time.Minute)
		user := &model.User{
			ID:               uuid.New(),
			Email:            testEmail,
			PasswordHash:     hashOf(t, "old-password"),
			ResetCodeHash:    hashOf(t, testCode),
			ResetCodeExpires: &expires,
		}
		mockRepo.On("FindByEmail", mock.Anything, testEmail).Return(user, nil)

		svc := newTestService(mockRepo, new(MockSender))
		err := svc.ResetPassword(context.Background(), testEmail, "000000", "new-password-1")

		assert.ErrorIs(t, err, errors.ErrInvalidCode)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	t.Run("verified code erases the record", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		expires := time.Now().Add(time.Minute)
		user := &model.User{
			ID:                uuid.New(),
			Email:             testEmail,
			PasswordHash:      hashOf(t, testPassword),
			DeleteCodeHash:    hashOf(t, testCode),
			DeleteCodeExpires: &expires,
		}
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{
			"delete_code_hash":    "",
			"delete_code_expires": nil,
		}).Return(nil)
		mockRepo.On("Delete", mock.Anything, user.ID).Return(nil)

		svc := newTestService(mockRepo, new(MockSender))
		err := svc.DeleteAccount(context.Background(), user.ID, testCode)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong code does not delete", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		expires := time.Now().Add(time.Minute)
		user := &model.User{
			ID:                uuid.New(),
			Email:             testEmail,
			PasswordHash:      hashOf(t, testPassword),
			DeleteCodeHash:    hashOf(t, testCode),
			DeleteCodeExpires: &expires,
		}
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		svc := newTestService(mockRepo, new(MockSender))
		err := svc.DeleteAccount(context.Background(), user.ID, "000000")

		assert.ErrorIs(t, err, errors.ErrInvalidCode)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestAuthService_UpdateAddress(t *testing.T) {
	t.Run("empty address rejected", func(t *testing.T) {
		svc := newTestService(new(MockUserRepository), new(MockSender))
		_, err := svc.UpdateAddress(context.Background(), uuid.New(), "   ")
		assert.ErrorIs(t, err, ErrAddressRequired)
	})

	t.Run("address replaced", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		user := &model.User{ID: uuid.New(), Email: testEmail, PasswordHash: "x", Address: "old"}
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		mockRepo.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{"address": "9 New Road"}).Return(nil)

		svc := newTestService(mockRepo, new(MockSender))
		updated, err := svc.UpdateAddress(context.Background(), user.ID, "9 New Road")

		assert.NoError(t, err)
		assert.Equal(t, "9 New Road", updated.Address)
		mockRepo.AssertExpectations(t)
	})
}
