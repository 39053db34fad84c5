package usecase

import (
	"context"

	"go.uber.org/zap"

	"vitashop/internal/domain"
	apperrors "vitashop/internal/errors"
	"vitashop/internal/events"
)

// authorize rejects access to an order owned by someone else. A nil
// requestingUserID is a trusted caller and sees every order.
func authorize(order *domain.Order, requestingUserID *int) error {
	if requestingUserID == nil || order.IsOwnedBy(*requestingUserID) {
		return nil
	}
	return apperrors.NewOrderAuthorizationError(order.ID, *requestingUserID)
}

// publish never fails the calling flow; a lost event is only logged.
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, eventType string, order domain.Order, reason string) {
	event := events.NewOrderEvent(eventType, order, reason)
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish order event",
			zap.String("eventType", eventType),
			zap.Uint("orderId", order.ID),
			zap.Error(err),
		)
	}
}
