package certlevel

import (
	"fmt"
	"strconv"
	"strings"
)

// NumberSettings is the site configuration certificate numbers depend on.
type NumberSettings struct {
	Prefix string
}

func numberStem(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%05d", numberStem(prefix, year), seq)
}

// ParseSequence extracts the running number of a certificate number issued
// under prefix in year.
func ParseSequence(number, prefix string, year int) (int, bool) {
	stem := numberStem(prefix, year)
	if !strings.HasPrefix(number, stem) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, stem))
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// NextNumber follows the highest number already issued for prefix and year.
func NextNumber(s NumberSettings, year int, highest string) string {
	seq, _ := ParseSequence(highest, s.Prefix, year)
	return FormatNumber(s.Prefix, year, seq+1)
}
