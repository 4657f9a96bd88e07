package services

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// rolePostable says which account roles may receive legs.
var rolePostable = map[domain.AccountRole]bool{
	domain.RolePosting: true,
	domain.RoleSummary: false,
}

// eligibilityRule is one row of the posting policy table.
type eligibilityRule struct {
	name   string
	allows func(domain.Account) bool
	reason string
}

// postingPolicy is evaluated in order; the first failing rule decides.
var postingPolicy = []eligibilityRule{
	{
		name:   "active",
		allows: func(a domain.Account) bool { return a.IsActive },
		reason: "account is deactivated",
	},
	{
		name:   "role",
		allows: func(a domain.Account) bool { return rolePostable[a.Role] },
		reason: "summary accounts are reserved for aggregation",
	},
}

func evaluatePostingPolicy(acc domain.Account) domain.Eligibility {
	for _, rule := range postingPolicy {
		if !rule.allows(acc) {
			return domain.Eligibility{AccountID: acc.AccountID, Eligible: false, Rule: rule.name, Reason: rule.reason}
		}
	}
	return domain.Eligibility{AccountID: acc.AccountID, Eligible: true}
}
