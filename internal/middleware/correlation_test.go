package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	cases := []struct {
		name     string
		headers  map[string]string
		expected string
	}{
		{name: "correlation header", headers: map[string]string{"X-Correlation-ID": "abc-123"}, expected: "abc-123"},
		{name: "request id fallback", headers: map[string]string{"X-Request-ID": "req-9"}, expected: "req-9"},
		{name: "too long", headers: map[string]string{"X-Correlation-ID": strings.Repeat("a", 200)}},
		{name: "generated", headers: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fromContext string
			app := fiber.New()
			app.Use(CorrelationID())
			app.Get("/", func(c *fiber.Ctx) error {
				fromContext = CorrelationIDFromContext(c.UserContext())
				return c.SendString(GetCorrelationID(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)

			echoed := resp.Header.Get("X-Correlation-ID")
			require.NotEmpty(t, echoed)
			require.Equal(t, echoed, fromContext)
			if tc.expected != "" {
				require.Equal(t, tc.expected, echoed)
			} else {
				require.Len(t, echoed, 36)
			}
		})
	}
}
