package query

import (
	"fmt"
	"strings"
)

// Validate проверяет, что запрос только читает данные.
func Validate(q Query) error {
	upper := strings.ToUpper(strings.TrimSpace(q.SQL))
	if !strings.HasPrefix(upper, "SELECT") {
		return fmt.Errorf("only SELECT statements are allowed")
	}
	forbidden := []string{"DROP", "DELETE", "UPDATE", "INSERT", "CREATE", "ALTER"}
	for _, word := range strings.FieldsFunc(upper, isSeparator) {
		for _, f := range forbidden {
			if word == f {
				return fmt.Errorf("forbidden operation: %s", f)
			}
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	return !(r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
}
