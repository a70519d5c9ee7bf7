package chat

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical normalizes an identity value to its canonical string form.
// Clients are inconsistent about whether they send ids as strings or JSON
// numbers; room names and stored sender/receiver fields must never depend on
// which one arrived, so every identity passes through here at the boundary.
func Canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case fmt.Stringer:
		return x.String()
	case float64:
		// JSON numbers decode as float64; integral ids must not grow a ".0".
		if x == math.Trunc(x) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// WithSpace qualifies a bare id with an identity space ("user", "caretaker").
// Ids that already carry a space pass through unchanged.
func WithSpace(space string, id string) string {
	if id == "" || strings.Contains(id, ":") {
		return id
	}
	return space + ":" + id
}
