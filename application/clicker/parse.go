package clicker

import (
	"fmt"
	"strconv"
	"strings"

	"autoclicker/domain/entities"
)

// ParseCounter - parses counter text such as "1,234 cookies"
func ParseCounter(text string) (int64, error) {
	token, _, _ := strings.Cut(text, " ")
	token = strings.ReplaceAll(token, ",", "")

	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %q: %w", text, entities.ErrUnparsable)
	}
	return n, nil
}

// ParsePrice - parses price text; only plain non-negative integers with
// optional thousands separators are accepted
func ParsePrice(text string) (int64, error) {
	digits := strings.ReplaceAll(text, ",", "")
	if !isDigits(digits) {
		return 0, fmt.Errorf("price %q: %w", text, entities.ErrUnparsable)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", text, entities.ErrUnparsable)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
