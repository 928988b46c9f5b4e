package pg

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vnxcius/sign-backend/internal/database/model"
)

// storeResolution is the precision of a Postgres timestamptz.
const storeResolution = time.Microsecond

type repository struct {
	db      *gorm.DB
	timeout time.Duration
	now     func() time.Time
}

func newRepository(db *gorm.DB, timeout time.Duration) repository {
	return repository{db: db, timeout: timeout, now: time.Now}
}

// timestamp is the current instant as Postgres will store it, so callers and
// notifiers see the same value the row holds.
func (r repository) timestamp() time.Time {
	return r.now().UTC().Truncate(storeResolution)
}

// session returns a gorm session bound to ctx with the query timeout applied.
func (r repository) session(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if r.timeout <= 0 {
		return r.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(ctx), cancel
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return model.ErrDuplicate
	default:
		return err
	}
}
