package access

type RuleType string

const (
	RuleAll   RuleType = "ALL"
	RuleGroup RuleType = "GROUP"
	RuleUser  RuleType = "USER"
)

var AllRuleTypes = []RuleType{RuleAll, RuleGroup, RuleUser}

func (t RuleType) IsValid() bool {
	for _, v := range AllRuleTypes {
		if t == v {
			return true
		}
	}
	return false
}
