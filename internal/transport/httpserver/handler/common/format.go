package common

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Round1 rounds a score or percentage to one decimal place for display.
func Round1(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(1).Float64()
	return rounded
}

func Round1Ptr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	rounded := Round1(*value)
	return &rounded
}

func ParseCSV(value string) []string {
	parts := strings.Split(value, ",")
	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
