package service

import (
	"context"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/metrics"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

// remind stores the follow-up reminder of a committed operation.
// Failures are logged and dropped.
func (svc *service) remind(ctx context.Context, o model.Operation, p *model.Product, r *model.Reservation) {
	rm := ledger.ReminderFor(o, *p, r, svc.now())
	if rm == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	if _, err := svc.reminders.Create(ctx, rm); err != nil {
		metrics.SideEffectFailures.WithLabelValues("reminder").Inc()
		logger.Warn(ctx, "create reminder",
			logger.Int64("operation_id", o.ID),
			logger.String("type", string(o.Type)),
			logger.ErrorF(err),
		)
	}
}
