package otp

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"tastebite/internal/errors"
	"tastebite/internal/model"
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

func registeredUser() *model.User {
	return &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		PasswordHash: "$2a$10$notarealhashbutnotempty",
	}
}

func shellUser() *model.User {
	return &model.User{
		ID:    uuid.New(),
		Email: "pending@example.com",
	}
}

func codeSlot(t *testing.T, code string, expires time.Time) (string, *time.Time) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash), &expires
}

func TestEngine_Issue(t *testing.T) {
	tests := []struct {
		name          string
		user          func() *model.User
		purpose       Purpose
		setupMock     func(*MockUserRepository, *MockSender, *model.User)
		expectedError error
	}{
		{
			name:    "register code issued for shell",
			user:    shellUser,
			purpose: PurposeRegister,
			setupMock: func(mRepo *MockUserRepository, mSender *MockSender, u *model.User) {
				mRepo.On("UpdateFields", mock.Anything, u.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
					_, hasHash := fields["login_code_hash"]
					_, hasExpiry := fields["login_code_expires"]
					return hasHash && hasExpiry
				})).Return(nil)
				mSender.On("Send", mock.Anything, u.Email, "Account Verification OTP", mock.Anything).Return(nil)
			},
		},
		{
			name:          "register refused once a password exists",
			user:          registeredUser,
			purpose:       PurposeRegister,
			setupMock:     func(*MockUserRepository, *MockSender, *model.User) {},
			expectedError: errors.ErrUserAlreadyExists,
		},
		{
			name:          "login code requires a completed registration",
			user:          shellUser,
			purpose:       PurposeLogin,
			setupMock:     func(*MockUserRepository, *MockSender, *model.User) {},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name:    "reset code stored in its own slot",
			user:    registeredUser,
			purpose: PurposeReset,
			setupMock: func(mRepo *MockUserRepository, mSender *MockSender, u *model.User) {
				mRepo.On("UpdateFields", mock.Anything, u.ID, mock.MatchedBy(func(fields map[string]interface{}) bool {
					_, hasHash := fields["reset_code_hash"]
					return hasHash
				})).Return(nil)
				mSender.On("Send", mock.Anything, u.Email, "Password Reset OTP", mock.Anything).Return(nil)
			},
		},
		{
			name:    "delivery failure reported even though code persisted",
			user:    registeredUser,
			purpose: PurposeLogin,
			setupMock: func(mRepo *MockUserRepository, mSender *MockSender, u *model.User) {
				mRepo.On("UpdateFields", mock.Anything, u.ID, mock.Anything).Return(nil)
				mSender.On("Send", mock.Anything, u.Email, mock.Anything, mock.Anything).Return(assert.AnError)
			},
			expectedError: errors.ErrDeliveryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockSender := new(MockSender)
			user := tt.user()
			tt.setupMock(mockRepo, mockSender, user)

			engine := NewEngine(mockRepo, mockSender, nil)
			err := engine.Issue(context.Background(), user, tt.purpose)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
			mockSender.AssertExpectations(t)
		})
	}
}

func TestEngine_VerifyAndConsume(t *testing.T) {
	const code = "123456"

	t.Run("correct code succeeds and clears the slot", func(t *testing.T) {
		user := registeredUser()
		user.LoginCodeHash, user.LoginCodeExpires = codeSlot(t, code, time.Now().Add(time.Minute))

		mockRepo := new(MockUserRepository)
		mockRepo.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{
			"login_code_hash":    "",
			"login_code_expires": nil,
		}).Return(nil)

		engine := NewEngine(mockRepo, new(MockSender), nil)
		err := engine.VerifyAndConsume(context.Background(), user, PurposeLogin, code)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("cleared slot fails a second attempt", func(t *testing.T) {
		user := registeredUser() // slot already consumed: empty hash, nil expiry

		mockRepo := new(MockUserRepository)
		engine := NewEngine(mockRepo, new(MockSender), nil)
		err := engine.VerifyAndConsume(context.Background(), user, PurposeLogin, code)
		assert.ErrorIs(t, err, errors.ErrInvalidCode)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("expired code fails regardless of correctness", func(t *testing.T) {
		user := registeredUser()
		user.LoginCodeHash, user.LoginCodeExpires = codeSlot(t, code, time.Now().Add(-time.Second))

		mockRepo := new(MockUserRepository)
		engine := NewEngine(mockRepo, new(MockSender), nil)
		err := engine.VerifyAndConsume(context.Background(), user, PurposeLogin, code)
		assert.ErrorIs(t, err, errors.ErrInvalidCode)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong candidate fails with the same generic error", func(t *testing.T) {
		user := registeredUser()
		user.LoginCodeHash, user.LoginCodeExpires = codeSlot(t, code, time.Now().Add(time.Minute))

		mockRepo := new(MockUserRepository)
		engine := NewEngine(mockRepo, new(MockSender), nil)
		err := engine.VerifyAndConsume(context.Background(), user, PurposeLogin, "654321")
		assert.ErrorIs(t, err, errors.ErrInvalidCode)
		mockRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("purposes use independent slots", func(t *testing.T) {
		user := registeredUser()
		user.ResetCodeHash, user.ResetCodeExpires = codeSlot(t, code, time.Now().Add(time.Minute))

		mockRepo := new(MockUserRepository)
		engine := NewEngine(mockRepo, new(MockSender), nil)

		// The reset code is not valid for the delete purpose.
		err := engine.VerifyAndConsume(context.Background(), user, PurposeDelete, code)
		assert.ErrorIs(t, err, errors.ErrInvalidCode)

		mockRepo.On("UpdateFields", mock.Anything, user.ID, map[string]interface{}{
			"reset_code_hash":    "",
			"reset_code_expires": nil,
		}).Return(nil)
		err = engine.VerifyAndConsume(context.Background(), user, PurposeReset, code)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
