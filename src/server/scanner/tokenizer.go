package scanner

import (
	"strings"
)

var tokenSeparators = strings.NewReplacer(
	"=", " = ",
	"\"", " \" ",
)

// Tokenize splits a source line into tokens on whitespace runs. The `=` and
// `"` characters are always isolated as their own tokens regardless of
// surrounding whitespace, so `variable x="y"` and `variable x = " y "`
// tokenize identically. Empty tokens are dropped.
func Tokenize(line string) []string {
	return strings.Fields(tokenSeparators.Replace(line))
}

// trimListSeparators strips list commas from a declaration token, so the
// names in `variable a, b, c` come out bare.
func trimListSeparators(token string) string {
	return strings.Trim(token, ",")
}
