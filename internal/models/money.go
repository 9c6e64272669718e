package models

import "fmt"

// FormatPence renders an amount of pence as a pound string, e.g. 7500 ->
// "£75.00". Negative amounts keep the sign ahead of the currency symbol.
func FormatPence(p int64) string {
	sign := ""
	if p < 0 {
		sign = "-"
		p = -p
	}
	return fmt.Sprintf("%s£%d.%02d", sign, p/100, p%100)
}
