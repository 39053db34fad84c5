package gateway

import (
	"strings"

	"vitashop/internal/domain"
)

var canonicalStatuses = map[string]string{
	"paid":       domain.PaymentStatusPaid,
	"authorized": domain.PaymentStatusPaid,
	"success":    domain.PaymentStatusPaid,
	"captured":   domain.PaymentStatusPaid,

	"refused":  domain.PaymentStatusFailed,
	"failed":   domain.PaymentStatusFailed,
	"canceled": domain.PaymentStatusFailed,

	"processing":      domain.PaymentStatusPending,
	"pending":         domain.PaymentStatusPending,
	"waiting_payment": domain.PaymentStatusPending,
}

// MapStatus folds a raw gateway status into paid, pending or failed. Unknown
// values map to failed and known reports false.
func MapStatus(raw string) (canonical string, known bool) {
	canonical, known = canonicalStatuses[strings.ToLower(strings.TrimSpace(raw))]
	if !known {
		return domain.PaymentStatusFailed, false
	}
	return canonical, true
}
