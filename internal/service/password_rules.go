package service

// MinPasswordLength is the platform minimum-strength policy.
const MinPasswordLength = 8

// PasswordRule is a single check applied to a submitted password and its
// confirmation field.
type PasswordRule struct {
	Field   string
	Message string
	Valid   func(password, confirmation string) bool
}

// PasswordRules returns the rule set applicable to a submission. On create
// the password is always provided; on update the caller passes provided
// based on whether either password field is non-empty, so leaving both
// blank keeps the stored hash untouched.
func PasswordRules(provided bool) []PasswordRule {
	if !provided {
		return nil
	}
	return []PasswordRule{
		{
			Field:   "password",
			Message: "password is required",
			Valid: func(password, _ string) bool {
				return password != ""
			},
		},
		{
			Field:   "password",
			Message: "password must be at least 8 characters",
			Valid: func(password, _ string) bool {
				return len(password) >= MinPasswordLength
			},
		},
		{
			Field:   "password",
			Message: "password confirmation does not match",
			Valid: func(password, confirmation string) bool {
				return password == confirmation
			},
		},
	}
}

// checkPasswordRules runs the rule set and reports the first failure.
func checkPasswordRules(rules []PasswordRule, password, confirmation string) (string, string, bool) {
	for _, rule := range rules {
		if !rule.Valid(password, confirmation) {
			return rule.Field, rule.Message, false
		}
	}
	return "", "", true
}
