package certlevel

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
)

type AccessRuleRequest struct {
	Type    access.RuleType `json:"type" validate:"required"`
	GroupID *uuid.UUID      `json:"group_id"`
	UserID  *uuid.UUID      `json:"user_id"`
}

func (r AccessRuleRequest) Rule() access.Rule {
	return access.Rule{Type: r.Type, GroupID: r.GroupID, UserID: r.UserID}
}
