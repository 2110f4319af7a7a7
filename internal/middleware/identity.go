package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserID returns the authenticated subject stored by JWTAuth, or "" when
// the request is anonymous.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// subjectString renders the sub claim.  The auth service issues numeric
// user ids, which JSON decoding turns into float64.
func subjectString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t < 0 || t != float64(uint64(t)) {
			return ""
		}
		return strconv.FormatUint(uint64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}
