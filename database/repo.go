package database

import (
	"context"
	"time"

	"github.com/mkifle/portfolio-backend/errs"
)

// withTimeout bounds a single repository call by the configured query timeout.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// translate maps a gorm error onto the API error taxonomy, keeping nil as nil.
func translate(operation, entity, duplicateMessage string, err error) error {
	if err == nil {
		return nil
	}
	return errs.TranslateDatabaseError(operation, entity, duplicateMessage, err)
}
