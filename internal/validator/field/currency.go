package field

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Currency formats an amount as "1,234.56".
//
// Only digits, commas and dots survive; commas become dots and, when more
// than one dot remains, the last group is the fraction and everything
// before it the integer part. Unparseable input is returned trimmed.
// Currency carries no validity flag, so a malformed amount never produces
// a warning.
func Currency(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.':
			return r
		case r == ',':
			return '.'
		}
		return -1
	}, text)

	if strings.Count(cleaned, ".") > 1 {
		groups := strings.Split(cleaned, ".")
		last := len(groups) - 1
		cleaned = strings.Join(groups[:last], "") + "." + groups[last]
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// groupThousands inserts "," separators into the integer part of a fixed
// point number.
func groupThousands(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return fixed
	}
	return humanize.BigComma(n) + "." + frac
}
