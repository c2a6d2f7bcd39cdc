package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyReplacer = strings.NewReplacer("€", "", "$", "", "£", "", "\u00a0", "", " ", "")

// ParseAmount converts a table cell into a float.
//
// Numbeo publishes numbers as "1,234.56". When both separators appear, the
// last one is the decimal mark, so "1.234,56" is also accepted. A lone comma
// is read as a thousands separator when every group after it has three digits
// ("1,234"), otherwise as a decimal comma ("12,5"). Placeholders such as "N/A"
// or "-" and values outside the float64 range are rejected.
func ParseAmount(raw string) (float64, error) {
	s := currencyReplacer.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		lastComma, lastDot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
		if lastComma > lastDot {
			// 1.234,56: pontos são milhares, a vírgula é decimal
			if strings.Count(s, ",") > 1 {
				return 0, fmt.Errorf("could not convert %q to a number", raw)
			}
			s = strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Contains(s, ","):
		groups := strings.Split(s, ",")
		thousands := len(groups) > 1
		for _, g := range groups[1:] {
			if len(g) != 3 {
				thousands = false
				break
			}
		}
		if thousands {
			s = strings.ReplaceAll(s, ",", "")
		} else if len(groups) == 2 {
			s = groups[0] + "." + groups[1]
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("could not convert %q to a number", raw)
	}
	return finiteFloat(d, raw)
}

// ParseQuantity converts the raw JSON value of a habit entry into a float.
// Numeric strings such as "2" are accepted.
func ParseQuantity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return 0, fmt.Errorf("invalid JSON string %s", raw)
		}
		return ParseAmount(s)
	}

	var n json.Number
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return 0, fmt.Errorf("quantity %s is not a number", raw)
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, fmt.Errorf("quantity %s is not a number", raw)
	}
	return finiteFloat(d, raw)
}

// finiteFloat converts d, rejecting values outside the float64 range.
func finiteFloat(d decimal.Decimal, raw string) (float64, error) {
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%s is out of range", raw)
	}
	return f, nil
}

// jsonValueType names the JSON type of a raw value, for diagnostics.
func jsonValueType(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return "empty"
	case raw == "null":
		return "null"
	case raw == "true" || raw == "false":
		return "bool"
	case strings.HasPrefix(raw, `"`):
		return "string"
	case strings.HasPrefix(raw, "{"):
		return "object"
	case strings.HasPrefix(raw, "["):
		return "array"
	}
	return "number"
}
