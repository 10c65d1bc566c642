package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "user-registration-service/internal/domain/user"
	pkgerrors "user-registration-service/pkg/errors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockRepository) Exists(ctx context.Context, candidate domain.User) (bool, error) {
	args := m.Called(ctx, candidate)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Append(ctx context.Context, u domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

// MockRecorder captures telemetry calls
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordOutcome(outcome string)      { m.Called(outcome) }
func (m *MockRecorder) RecordBonus(bonus decimal.Decimal) { m.Called(bonus.String()) }
func (m *MockRecorder) RecordListed(count int)            { m.Called(count) }

func setupTestUsecase(t *testing.T) (*Usecase, *MockRepository) {
	mockRepo := new(MockRepository)
	logger := zaptest.NewLogger(t)
	uc := New(mockRepo, logger, nil)
	return uc, mockRepo
}

func validRequest() CreateUserRequest {
	return CreateUserRequest{
		Name:    "John Doe",
		Email:   "john.doe+x@a.com",
		Phone:   "555",
		Address: "1 Main",
		Tier:    domain.TierNormal,
		Balance: decimal.NewFromInt(50),
	}
}

// ==================== CREATE TESTS ====================

func TestCreate_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := validRequest()

	mockRepo.On("Exists", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "johndoe@a.com" && u.Balance.Equal(decimal.NewFromInt(50))
	})).Return(false, nil)
	mockRepo.On("Append", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "John Doe" &&
			u.Email == "johndoe@a.com" &&
			u.Phone == "555" &&
			u.Address == "1 Main" &&
			u.Tier == domain.TierNormal &&
			u.Balance.Equal(decimal.NewFromInt(54))
	})).Return(nil)

	resp, err := uc.Create(ctx, req)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, StateOk, resp.State)

	mockRepo.AssertExpectations(t)
}

func TestCreate_TrimsFieldsBeforeStoreAccess(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	req := validRequest()
	req.Name = "  John Doe "
	req.Phone = " 555 "
	req.Address = "\t1 Main  "

	matcher := mock.MatchedBy(func(u domain.User) bool {
		return u.Name == "John Doe" && u.Phone == "555" && u.Address == "1 Main"
	})
	mockRepo.On("Exists", ctx, matcher).Return(false, nil)
	mockRepo.On("Append", ctx, matcher).Return(nil)

	resp, err := uc.Create(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, StateOk, resp.State)
	mockRepo.AssertExpectations(t)
}

func TestCreate_WrongFormatEmail(t *testing.T) {
	for _, email := range []string{"invalid-email", "", "john@", "@example.com", "john doe@example.com"} {
		t.Run(email, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			req := validRequest()
			req.Email = email

			resp, err := uc.Create(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, StateWrongFormatEmail, resp.State)
			mockRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_EmailThatCannotBeStored(t *testing.T) {
	tests := map[string]string{
		"quoted separator":  `"a,b"@x.com`,
		"quoted line break": "\"a\nb\"@x.com",
		"over 254 chars":    strings.Repeat("a", 60) + "@" + strings.Repeat("b", 190) + ".com",
		"over a megabyte":   strings.Repeat("a", 1_100_000) + "@x.com",
	}

	for name, email := range tests {
		t.Run(name, func(t *testing.T) {
			uc, mockRepo := setupTestUsecase(t)

			req := validRequest()
			req.Email = email

			resp, err := uc.Create(context.Background(), req)

			require.NoError(t, err)
			assert.Equal(t, StateWrongFormatEmail, resp.State)
			mockRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_WrongFormatEmailTakesPrecedence(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	resp, err := uc.Create(context.Background(), CreateUserRequest{Email: "nope"})

	require.NoError(t, err)
	assert.Equal(t, StateWrongFormatEmail, resp.State)
	mockRepo.AssertExpectations(t)
}

func TestCreate_ValidationError_RequiredFields(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)

	req := validRequest()
	req.Name = ""
	req.Phone = "   "

	resp, err := uc.Create(context.Background(), req)

	assert.Nil(t, resp)
	require.Error(t, err)

	var vErr *pkgerrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "Name is required")
	assert.Contains(t, err.Error(), "Phone must not be blank")
	mockRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestCreate_UserAlreadyRegistered(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("Exists", ctx, mock.Anything).Return(true, nil)

	resp, err := uc.Create(ctx, validRequest())

	require.NoError(t, err)
	assert.Equal(t, StateUserAlreadyRegistered, resp.State)
	mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCreate_ExistsFailurePropagates(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	storeErr := errors.New("store unreachable")
	mockRepo.On("Exists", ctx, mock.Anything).Return(false, storeErr)

	resp, err := uc.Create(ctx, validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, storeErr)
	mockRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestCreate_AppendFailurePropagates(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	storeErr := errors.New("disk full")
	mockRepo.On("Exists", ctx, mock.Anything).Return(false, nil)
	mockRepo.On("Append", ctx, mock.Anything).Return(storeErr).Once()

	resp, err := uc.Create(ctx, validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, storeErr)
	// no retry
	mockRepo.AssertNumberOfCalls(t, "Append", 1)
}

func TestCreate_CancelledContextWhileWaiting(t *testing.T) {
	uc, _ := setupTestUsecase(t)

	// hold the registration slot
	require.NoError(t, uc.writeSem.Acquire(context.Background(), 1))
	defer uc.writeSem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := uc.Create(ctx, validRequest())

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCreate_RecordsTelemetry(t *testing.T) {
	mockRepo := new(MockRepository)
	rec := new(MockRecorder)
	uc := New(mockRepo, zaptest.NewLogger(t), rec)
	ctx := context.Background()

	mockRepo.On("Exists", ctx, mock.Anything).Return(false, nil).Once()
	mockRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
	rec.On("RecordBonus", "4").Once()
	rec.On("RecordOutcome", "ok").Once()
	rec.On("RecordOutcome", "wrong_format_email").Once()

	_, err := uc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = uc.Create(ctx, CreateUserRequest{Email: "bad"})
	require.NoError(t, err)

	rec.AssertExpectations(t)
}

// ==================== GET ALL TESTS ====================

func TestGetAll_Success(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	stored := []domain.User{
		{Name: "John", Email: "john@example.com", Phone: "555-1234", Address: "123 Main St", Tier: domain.TierNormal, Balance: decimal.NewFromInt(50)},
		{Name: "Jane", Email: "jane@example.com", Phone: "555-5678", Address: "456 Oak St", Tier: domain.TierSuperUser, Balance: decimal.NewFromInt(150)},
	}
	mockRepo.On("ListAll", ctx).Return(stored, nil)

	resp, err := uc.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "John", resp.Users[0].Name)
	assert.Equal(t, domain.TierSuperUser, resp.Users[1].Tier)
	assert.True(t, resp.Users[1].Balance.Equal(decimal.NewFromInt(150)))

	mockRepo.AssertExpectations(t)
}

func TestGetAll_Empty(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("ListAll", ctx).Return([]domain.User{}, nil)

	resp, err := uc.GetAll(ctx)

	require.NoError(t, err)
	assert.Empty(t, resp.Users)
}

func TestGetAll_Error(t *testing.T) {
	uc, mockRepo := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("ListAll", ctx).Return(nil, errors.New("read failed"))

	resp, err := uc.GetAll(ctx)

	assert.Nil(t, resp)
	assert.EqualError(t, err, "read failed")
}

// ==================== VALIDATION HELPER TESTS ====================

func TestFormatValidationError(t *testing.T) {
	validate := validator.New()

	type TestStruct struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}

	err := validate.Struct(&TestStruct{})
	formatted := formatValidationError(err)

	assert.Error(t, formatted)
	assert.Contains(t, formatted.Error(), "validation failed")
	assert.Contains(t, formatted.Error(), "Name is required")
	assert.Contains(t, formatted.Error(), "Email is required")
}

func TestFormatValidationError_NonValidationError(t *testing.T) {
	originalErr := errors.New("some other error")
	formatted := formatValidationError(originalErr)

	assert.Equal(t, originalErr, formatted)
}

func TestCreateUserState_String(t *testing.T) {
	assert.Equal(t, "ok", StateOk.String())
	assert.Equal(t, "user_already_registered", StateUserAlreadyRegistered.String())
	assert.Equal(t, "wrong_format_email", StateWrongFormatEmail.String())
	assert.Equal(t, "unknown", CreateUserState(99).String())
}
