package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	domain "user-registration-service/internal/domain/user"
	pkgerrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// maxEmailLength is the RFC 5321 limit on a forward path.
const maxEmailLength = 254

// Repository defines the interface for the user record store.
// Implementations re-read persisted state on every call and keep no cache.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.User, error)               // Read every persisted record
	Exists(ctx context.Context, candidate domain.User) (bool, error) // Duplicate check against all records
	Append(ctx context.Context, u domain.User) error                 // Persist a new record
}

// Recorder receives registration telemetry. A nil Recorder disables it.
type Recorder interface {
	RecordOutcome(outcome string)
	RecordBonus(bonus decimal.Decimal)
	RecordListed(count int)
}

// Usecase implements the registration pipeline: email validation, normalization,
// duplicate rejection, bonus calculation and persistence.
type Usecase struct {
	repo     Repository          // Record store
	rec      Recorder            // Telemetry sink
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
	writeSem *semaphore.Weighted // Serializes the existence check and append
}

// New creates a new instance of Usecase with the provided repository, logger and recorder.
func New(r Repository, log *zap.Logger, rec Recorder) *Usecase {
	if rec == nil {
		rec = nopRecorder{}
	}

	v := validator.New()
	// notblank is outside the validator's default set
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Usecase{
		repo:     r,
		rec:      rec,
		log:      log,
		validate: v,
		writeSem: semaphore.NewWeighted(1),
	}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			switch e.Tag() {
			case "required":
				messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
			case "notblank":
				messages = append(messages, fmt.Sprintf("%s must not be blank", e.Field()))
			case "email":
				messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
			case "max":
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			default:
				messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
			}
		}
		return pkgerrors.NewValidationError("", strings.Join(messages, ", "))
	}
	return err
}

// Create registers a new user. Rejections (bad email, duplicate) are reported through
// the response state; any returned error is either a validation error or an
// infrastructure fault from the store.
func (uc *Usecase) Create(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user",
		zap.String("name", in.Name),
		zap.String("email", in.Email),
		zap.Stringer("tier", in.Tier),
	)

	if !uc.storableEmail(in.Email) {
		uc.log.Info("email format rejected", zap.Int("length", len(in.Email)))
		return uc.finish(StateWrongFormatEmail), nil
	}

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	email, err := domain.NormalizeEmail(strings.TrimSpace(in.Email))
	if err != nil {
		uc.log.Warn("email normalization failed", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewValidationError("Email", err.Error())
	}

	candidate := domain.User{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Tier:    in.Tier,
		Balance: in.Balance,
	}

	if err := uc.writeSem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire registration slot: %w", err)
	}
	defer uc.writeSem.Release(1)

	exists, err := uc.repo.Exists(ctx, candidate)
	if err != nil {
		uc.log.Error("failed to check existing user", zap.String("email", email), zap.Error(err))
		uc.rec.RecordOutcome(outcomeError)
		return nil, err
	}
	if exists {
		uc.log.Warn("user already registered", zap.String("email", email), zap.String("phone", candidate.Phone))
		return uc.finish(StateUserAlreadyRegistered), nil
	}

	// Business logic: registration bonus
	bonus := domain.ApplyBonus(&candidate)

	if err := uc.repo.Append(ctx, candidate); err != nil {
		uc.log.Error("failed to append user", zap.String("email", email), zap.Error(err))
		uc.rec.RecordOutcome(outcomeError)
		return nil, err
	}

	uc.rec.RecordBonus(bonus)
	uc.log.Info("user registered",
		zap.String("email", email),
		zap.Stringer("tier", candidate.Tier),
		zap.String("bonus", bonus.String()),
		zap.String("balance", candidate.Balance.String()),
	)

	return uc.finish(StateOk), nil
}

// GetAll returns every persisted user.
func (uc *Usecase) GetAll(ctx context.Context) (*ListUsersResponse, error) {
	uc.log.Info("listing users")

	domainUsers, err := uc.repo.ListAll(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			Name:    du.Name,
			Email:   du.Email,
			Phone:   du.Phone,
			Address: du.Address,
			Tier:    du.Tier,
			Balance: du.Balance,
		}
	}

	uc.rec.RecordListed(len(users))
	return &ListUsersResponse{Users: users}, nil
}

// storableEmail reports whether email is syntactically valid and can be written to a
// record line unchanged. Quoted local parts may legally hold a separator or line break.
func (uc *Usecase) storableEmail(email string) bool {
	if strings.ContainsAny(email, security.FieldSeparator+"\r\n") {
		return false
	}
	return uc.validate.Var(email, "required,max="+strconv.Itoa(maxEmailLength)+",email") == nil
}

func (uc *Usecase) finish(state CreateUserState) *CreateUserResponse {
	uc.rec.RecordOutcome(state.String())
	return &CreateUserResponse{State: state}
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(string)        {}
func (nopRecorder) RecordBonus(decimal.Decimal) {}
func (nopRecorder) RecordListed(int)            {}
