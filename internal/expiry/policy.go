package expiry

import (
	"errors"
	"time"
)

type Type string

const (
	Never        Type = "NEVER"
	FixedDate    Type = "FIXED_DATE"
	PeriodDays   Type = "PERIOD_DAYS"
	PeriodMonths Type = "PERIOD_MONTHS"
	PeriodYears  Type = "PERIOD_YEARS"
)

var ErrInvalidPolicy = errors.New("invalid expiry policy")

// Policy is embedded by courses and certification levels.
type Policy struct {
	ExpiryType  Type       `gorm:"column:expiry_type;type:varchar(20);not null;default:NEVER" json:"expiry_type"`
	ExpiryValue *int       `gorm:"column:expiry_value" json:"expiry_value,omitempty"`
	ExpiryDate  *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
}

func (p Policy) Validate() error {
	switch p.ExpiryType {
	case Never, "":
		return nil
	case FixedDate:
		if p.ExpiryDate == nil {
			return ErrInvalidPolicy
		}
	case PeriodDays, PeriodMonths, PeriodYears:
		if p.ExpiryValue == nil || *p.ExpiryValue <= 0 {
			return ErrInvalidPolicy
		}
	default:
		return ErrInvalidPolicy
	}
	return nil
}

// ExpiresAt computes the expiry of something issued at issuedAt.
// Month and year periods follow calendar arithmetic, so Jan 31 plus one
// month normalizes into March like time.AddDate does.
func (p Policy) ExpiresAt(issuedAt time.Time) (*time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var t time.Time
	switch p.ExpiryType {
	case Never, "":
		return nil, nil
	case FixedDate:
		t = *p.ExpiryDate
	case PeriodDays:
		t = issuedAt.AddDate(0, 0, *p.ExpiryValue)
	case PeriodMonths:
		t = issuedAt.AddDate(0, *p.ExpiryValue, 0)
	case PeriodYears:
		t = issuedAt.AddDate(*p.ExpiryValue, 0, 0)
	}
	return &t, nil
}

// Valid reports whether something with the given expiry is still valid at now.
func Valid(expiresAt *time.Time, now time.Time) bool {
	return expiresAt == nil || expiresAt.After(now)
}
