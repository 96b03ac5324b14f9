package user

import (
	"context"
	"errors"

	"github.com/plank-app/plank-backend/internal/pkg/model"
	"gorm.io/gorm"
)

var (
	// ErrNotFound signals that no user exists for the given key.
	ErrNotFound = errors.New("user: not found")
	// ErrDuplicateKey signals a write rejected by a uniqueness constraint.
	ErrDuplicateKey = errors.New("user: duplicate key")
)

// Store is the keyed record store the reconciler runs against.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	UpdateWalletAddress(ctx context.Context, id uint64, address string) (*model.User, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle opened with TranslateError so that constraint
// violations surface as gorm.ErrDuplicatedKey.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	result := s.db.WithContext(ctx).Where("email = ?", email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, result.Error
	}
	return &u, nil
}

func (s *gormStore) Create(ctx context.Context, u *model.User) (*model.User, error) {
	result := s.db.WithContext(ctx).Create(u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return u, nil
}

func (s *gormStore) UpdateWalletAddress(ctx context.Context, id uint64, address string) (*model.User, error) {
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("wallet_address", address)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}

	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
