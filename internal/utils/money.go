package utils

import (
	"fmt"
	"strconv"
)

// FormatPesos renders an integer amount with thousand separators, e.g. "$ 50.000".
func FormatPesos(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s$ %s", sign, formatThousand(amount))
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	out := make([]byte, 0, len(str)+len(str)/3)
	for i := 0; i < len(str); i++ {
		if i != 0 && (len(str)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, str[i])
	}
	return string(out)
}
