package service

import (
	"context"

	"github.com/personal-finance-ledger/internal/domain/activity"
)

// AuditService records activity events consumed from the broker
type AuditService interface {
	Record(ctx context.Context, event *activity.Event) error
}
