package receipts

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a rupee amount in the Indian numbering system
// (lakh/crore), e.g. 500 -> "Five Hundred Rupees Only".
func AmountInWords(amount float64) string {
	rupees := int64(math.Floor(amount))
	paise := int64(math.Round((amount - math.Floor(amount)) * 100))

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(intToIndianWords(rupees))
	}
	b.WriteString(" Rupees")
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(intToIndianWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

func intToIndianWords(n int64) string {
	parts := make([]string, 0, 5)
	appendPart := func(v int64, label string) {
		if v > 0 {
			w := twoDigits(v)
			if label != "" {
				w += " " + label
			}
			parts = append(parts, w)
		}
	}

	if crore := n / 10000000; crore > 0 {
		parts = append(parts, intToIndianWords(crore)+" Crore")
	}
	n %= 10000000
	appendPart(n/100000, "Lakh")
	n %= 100000
	appendPart(n/1000, "Thousand")
	n %= 1000
	appendPart(n/100, "Hundred")
	n %= 100
	appendPart(n, "")

	return strings.Join(parts, " ")
}

func twoDigits(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
