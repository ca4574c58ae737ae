package field

import "strings"

const (
	phoneLength       = 10
	mobilePhonePrefix = "09"
)

// Phone extracts Ecuadorian mobile numbers from OCR text.
//
// All non-digits are removed and the remaining digit string is cut into
// consecutive 10-digit runs from the left; runs starting with "09" are kept
// and joined with "/". A trailing partial run is ignored. When no run
// qualifies the trimmed input is returned as invalid.
func Phone(text string) Result {
	digits := keepDigits(text)

	var mobiles []string
	for i := 0; i+phoneLength <= len(digits); i += phoneLength {
		run := digits[i : i+phoneLength]
		if strings.HasPrefix(run, mobilePhonePrefix) {
			mobiles = append(mobiles, run)
		}
	}

	if len(mobiles) == 0 {
		return Result{Value: strings.TrimSpace(text), Valid: false}
	}
	return Result{Value: strings.Join(mobiles, "/"), Valid: true}
}
