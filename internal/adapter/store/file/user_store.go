package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"user-registration-service/internal/domain/user"
	"user-registration-service/pkg/security"
)

const (
	fieldCount = 6
	// Lines longer than this are skipped unparsed.
	maxLineBytes = 1 << 20
)

// UserStore implements the user Repository on top of a flat, append-only text file.
// Each line holds one record: name,email,phone,address,tier,balance.
type UserStore struct {
	path string      // Backing file path
	log  *zap.Logger // Structured logger for store operations
	mu   sync.Mutex  // Serializes appends within the process
}

// NewUserStore creates a new file-backed store. The file is created lazily on first append.
func NewUserStore(path string, log *zap.Logger) *UserStore {
	return &UserStore{path: path, log: log}
}

// Path returns the backing file path.
func (s *UserStore) Path() string {
	return s.path
}

// ListAll parses every well-formed line of the backing file.
// Lines that do not split into exactly six fields are skipped.
func (s *UserStore) ListAll(ctx context.Context) ([]user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []user.User{}, nil
		}
		s.log.Error("failed to read user store", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	users := make([]user.User, 0)

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(line) > maxLineBytes {
			s.log.Warn("skipping oversized user line", zap.String("path", s.path), zap.Int("line", i+1), zap.Int("bytes", len(line)))
			continue
		}
		u, ok := parseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				s.log.Debug("skipping malformed user line", zap.String("path", s.path), zap.Int("line", i+1))
			}
			continue
		}
		users = append(users, u)
	}

	return users, nil
}

// Exists reports whether candidate duplicates a stored record. A record matches on
// equal email or equal phone; only when no record matches that way is an equal
// name and address pair considered.
func (s *UserStore) Exists(ctx context.Context, candidate user.User) (bool, error) {
	users, err := s.ListAll(ctx)
	if err != nil {
		return false, err
	}

	name := strings.TrimSpace(candidate.Name)
	email := strings.TrimSpace(candidate.Email)
	phone := strings.TrimSpace(candidate.Phone)
	address := strings.TrimSpace(candidate.Address)

	for _, u := range users {
		if u.Email == email || u.Phone == phone {
			return true, nil
		}
	}

	for _, u := range users {
		if u.Name == name && u.Address == address {
			return true, nil
		}
	}

	return false, nil
}

// Append writes u as a new line at the end of the backing file, creating the file
// and its directory if needed.
func (s *UserStore) Append(ctx context.Context, u user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line := formatLine(u)

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.log.Error("failed to create user store directory", zap.String("dir", dir), zap.Error(err))
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Error("failed to open user store", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("failed to open users file: %w", err)
	}

	if _, err := f.WriteString("\n" + line); err != nil {
		_ = f.Close()
		s.log.Error("failed to append user", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("failed to append user: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close users file: %w", err)
	}

	s.log.Info("user appended to store", zap.String("path", s.path), zap.String("email", u.Email))
	return nil
}

func parseLine(line string) (user.User, bool) {
	fields := strings.Split(line, security.FieldSeparator)
	if len(fields) != fieldCount {
		return user.User{}, false
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	tier, err := user.ParseTier(fields[4])
	if err != nil {
		tier = user.TierNormal
	}

	balance, err := decimal.NewFromString(fields[5])
	if err != nil {
		balance = decimal.Zero
	}

	return user.User{
		Name:    fields[0],
		Email:   fields[1],
		Phone:   fields[2],
		Address: fields[3],
		Tier:    tier,
		Balance: balance,
	}, true
}

func formatLine(u user.User) string {
	return strings.Join([]string{
		security.SanitizeRecordField(u.Name),
		u.Email,
		security.SanitizeRecordField(u.Phone),
		security.SanitizeRecordField(u.Address),
		u.Tier.String(),
		u.Balance.String(),
	}, security.FieldSeparator)
}
