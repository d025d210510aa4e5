package access

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRuleType = errors.New("invalid access rule type")
	ErrGroupRequired   = errors.New("GROUP rule requires group_id only")
	ErrUserRequired    = errors.New("USER rule requires user_id only")
	ErrAllHasSubject   = errors.New("ALL rule must not carry group_id or user_id")
)

// Rule is embedded by course and certification level access rule tables.
type Rule struct {
	Type    RuleType   `gorm:"type:varchar(10);not null" json:"type"`
	GroupID *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	UserID  *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
}

// Validate checks that exactly the subject id required by the type is set.
func (r Rule) Validate() error {
	switch r.Type {
	case RuleAll:
		if r.GroupID != nil || r.UserID != nil {
			return ErrAllHasSubject
		}
	case RuleGroup:
		if r.GroupID == nil || r.UserID != nil {
			return ErrGroupRequired
		}
	case RuleUser:
		if r.UserID == nil || r.GroupID != nil {
			return ErrUserRequired
		}
	default:
		return ErrInvalidRuleType
	}
	return nil
}

// Principal is the caller as seen by rule evaluation.
type Principal struct {
	UserID   uuid.UUID
	GroupIDs []uuid.UUID
}

func (r Rule) Matches(p Principal) bool {
	switch r.Type {
	case RuleAll:
		return true
	case RuleGroup:
		if r.GroupID == nil {
			return false
		}
		for _, g := range p.GroupIDs {
			if g == *r.GroupID {
				return true
			}
		}
		return false
	case RuleUser:
		return r.UserID != nil && *r.UserID == p.UserID
	default:
		return false
	}
}

// Allowed grants access when any rule matches. No rules means no access.
func Allowed(rules []Rule, p Principal) bool {
	for _, r := range rules {
		if r.Matches(p) {
			return true
		}
	}
	return false
}

// InWindow reports whether now lies in [start, end]; a nil bound is open.
func InWindow(start, end *time.Time, now time.Time) bool {
	if start != nil && now.Before(*start) {
		return false
	}
	if end != nil && now.After(*end) {
		return false
	}
	return true
}
