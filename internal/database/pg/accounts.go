package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnxcius/sign-backend/internal/database/model"
)

type AccountRepository struct {
	repository
}

func NewAccountRepository(db *gorm.DB, timeout time.Duration) *AccountRepository {
	return &AccountRepository{repository: newRepository(db, timeout)}
}

// InsertAccount stores a new account. A taken email yields model.ErrDuplicate.
func (r *AccountRepository) InsertAccount(ctx context.Context, account *model.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = r.timestamp()
	}

	db, cancel := r.session(ctx)
	defer cancel()

	if err := db.Create(account).Error; err != nil {
		return fmt.Errorf("insert account: %w", translate(err))
	}
	return nil
}

func (r *AccountRepository) FindAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var account model.Account
	if err := db.Where("email = ?", email).Take(&account).Error; err != nil {
		return nil, fmt.Errorf("find account by email: %w", translate(err))
	}
	return &account, nil
}
