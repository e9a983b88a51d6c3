// Package validation checks claimed destination identities against stored
// account records.
package validation

import "github.com/sheikh-saqib/funds-transfer-core/internal/models"

// Matches reports whether every claimed identity attribute equals the one on
// the account. Comparison is exact; no trimming or case folding is applied.
func Matches(claimed models.Identity, actual models.Account) bool {
	return claimed == actual.Identity()
}

// Mismatches returns the names of the attributes that differ, in a fixed
// order. It is meant for diagnostics and returns nil on a match.
func Mismatches(claimed models.Identity, actual models.Account) []string {
	var fields []string
	if claimed.OwnerID != actual.OwnerID {
		fields = append(fields, "owner_id")
	}
	if claimed.BankCode != actual.BankCode {
		fields = append(fields, "bank_code")
	}
	if claimed.AccountType != actual.AccountType {
		fields = append(fields, "account_type")
	}
	if claimed.OwnerName != actual.OwnerName {
		fields = append(fields, "owner_name")
	}
	return fields
}
