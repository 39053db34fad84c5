package gateway

import (
	"go.uber.org/zap"

	"vitashop/internal/domain"
)

// normalize is the only place that knows where the id and status of a
// payment can hide. Priority is transaction, then charge, then order. A
// response with neither a transaction nor a charge is an order that was
// accepted but not yet charged.
func normalize(resp orderResponse, logger *zap.Logger) domain.PaymentOutcome {
	charge := resp.Charge
	if charge == nil && len(resp.Charges) > 0 {
		charge = &resp.Charges[0]
	}

	tx := resp.LastTransaction
	if tx == nil && charge != nil {
		tx = charge.LastTransaction
	}

	if tx == nil && charge == nil {
		return domain.PaymentOutcome{
			ID:        resp.ID,
			Status:    domain.PaymentStatusPending,
			RawStatus: resp.Status,
		}
	}

	var id, raw string
	if tx != nil {
		id, raw = tx.ID, tx.Status
	}
	if charge != nil {
		id, raw = firstNonEmpty(id, charge.ID), firstNonEmpty(raw, charge.Status)
	}
	id, raw = firstNonEmpty(id, resp.ID), firstNonEmpty(raw, resp.Status)

	status, known := MapStatus(raw)
	if !known {
		logger.Warn("unknown gateway status, treating as failed",
			zap.String("rawStatus", raw),
			zap.String("id", id),
		)
	}

	return domain.PaymentOutcome{
		ID:        id,
		Status:    status,
		RawStatus: raw,
	}
}

func normalizeCharge(resp chargeResponse, logger *zap.Logger) domain.PaymentOutcome {
	return normalize(orderResponse{ID: resp.ID, Charge: &resp}, logger)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
