package gormstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-registration-service/internal/domain/user"
	"user-registration-service/pkg/security"
)

// UserStore implements the user Repository using GORM (PostgreSQL or SQLite).
type UserStore struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserStore creates a new instance of UserStore.
func NewUserStore(db *gorm.DB, log *zap.Logger) *UserStore {
	return &UserStore{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"` // Insertion order
	Name    string `gorm:"not null;index:idx_users_name_address"`
	Email   string `gorm:"not null;index"`
	Phone   string `gorm:"not null;index"`
	Address string `gorm:"not null;index:idx_users_name_address"`
	Tier    string `gorm:"not null"`
	Balance string `gorm:"not null"` // Decimal text, kept exact
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// AutoMigrate creates the users table when it does not exist.
func (s *UserStore) AutoMigrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// ListAll retrieves every user record in insertion order.
func (s *UserStore) ListAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := s.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		s.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = toDomain(model)
	}

	return users, nil
}

// Exists reports whether a record shares the candidate's email or phone, or both
// its name and address.
func (s *UserStore) Exists(ctx context.Context, candidate user.User) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&UserSchema{}).
		Where("email = ? OR phone = ? OR (name = ? AND address = ?)",
			candidate.Email, candidate.Phone, candidate.Name, candidate.Address).
		Count(&count).Error
	if err != nil {
		s.log.Error("failed to check user existence in db", zap.Error(err), zap.String("email", candidate.Email))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return count > 0, nil
}

// Append inserts a new user row.
func (s *UserStore) Append(ctx context.Context, u user.User) error {
	model := UserSchema{
		Name:    security.SanitizeRecordField(u.Name),
		Email:   u.Email,
		Phone:   security.SanitizeRecordField(u.Phone),
		Address: security.SanitizeRecordField(u.Address),
		Tier:    u.Tier.String(),
		Balance: u.Balance.String(),
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		s.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user created in db", zap.Int64("id", model.ID))
	return nil
}

func toDomain(model UserSchema) user.User {
	tier, err := user.ParseTier(model.Tier)
	if err != nil {
		tier = user.TierNormal
	}

	balance, err := decimal.NewFromString(model.Balance)
	if err != nil {
		balance = decimal.Zero
	}

	return user.User{
		Name:    model.Name,
		Email:   model.Email,
		Phone:   model.Phone,
		Address: model.Address,
		Tier:    tier,
		Balance: balance,
	}
}
