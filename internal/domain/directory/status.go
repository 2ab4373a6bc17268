package directory

import "time"

// ExpiryWarningWindow is how far ahead a document counts as expiring soon.
const ExpiryWarningWindow = 90 * 24 * time.Hour

type Status string

const (
	StatusMissing      Status = "missing"
	StatusAvailable    Status = "available"
	StatusNoExpiry     Status = "no_expiry"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusValid        Status = "valid"
)

// DocumentStatus is the derived classification of one identity document,
// with the display text and style class the UI consumes.
type DocumentStatus struct {
	Status Status `json:"status"`
	Text   string `json:"text"`
	Class  string `json:"class"`
}

// PassportStatus classifies a document tracked by number only.
func PassportStatus(number string) DocumentStatus {
	if number == "" {
		return DocumentStatus{StatusMissing, "غير متوفر", "danger"}
	}
	return DocumentStatus{StatusAvailable, "متوفر", "success"}
}

// ExpiryStatus classifies a document tracked by number and expiry date.
// All comparisons are in UTC; an expiry exactly equal to now is expired.
func ExpiryStatus(number string, expiry *time.Time, now time.Time) DocumentStatus {
	if number == "" {
		return DocumentStatus{StatusMissing, "غير متوفرة", "danger"}
	}
	if expiry == nil {
		return DocumentStatus{StatusNoExpiry, "بدون تاريخ انتهاء", "warning"}
	}
	expiryUTC := expiry.UTC()
	nowUTC := now.UTC()
	switch {
	case !expiryUTC.After(nowUTC):
		return DocumentStatus{StatusExpired, "منتهية الصلاحية", "danger"}
	case expiryUTC.Before(nowUTC.Add(ExpiryWarningWindow)):
		return DocumentStatus{StatusExpiringSoon, "تنتهي قريباً", "warning"}
	default:
		return DocumentStatus{StatusValid, "سارية", "success"}
	}
}
