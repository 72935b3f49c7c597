package utils

import "regexp"

// Validation helpers for the Czech billing identity vendors supply at
// registration. Formats follow the conventions used on payment notices:
// bank accounts are "[prefix-]number/bankcode", IČO is an 8 digit company
// number with a mod 11 check digit and PSČ is a 5 digit postal code.

var (
    bankAccountRe = regexp.MustCompile(`^(\d{1,6}-)?\d{2,10}/\d{4}$`)
    pscRe         = regexp.MustCompile(`^\d{5}$`)
    icoRe         = regexp.MustCompile(`^\d{8}$`)
)

// ValidBankAccount reports whether s looks like a Czech bank account,
// e.g. "19-2000145399/0800" or "35-1240304389/0100".
func ValidBankAccount(s string) bool {
    return bankAccountRe.MatchString(s)
}

// ValidPSC reports whether s is a 5 digit postal code.
func ValidPSC(s string) bool {
    return pscRe.MatchString(s)
}

// ValidICO reports whether s is a valid company registration number.
// The last digit is a weighted mod 11 checksum of the first seven.
func ValidICO(s string) bool {
    if !icoRe.MatchString(s) {
        return false
    }
    sum := 0
    for i := 0; i < 7; i++ {
        sum += int(s[i]-'0') * (8 - i)
    }
    check := (11 - sum%11) % 10
    return int(s[7]-'0') == check
}
