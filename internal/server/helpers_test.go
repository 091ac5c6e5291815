package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultLimit   int
		expectedPage   int
		expectedLimit  int
		expectedOffset int
	}{
		{"Defaults", "", 10, 1, 10, 0},
		{"Explicit page", "page=3", 10, 3, 10, 20},
		{"Explicit limit", "limit=5", 10, 1, 5, 0},
		{"Both", "page=2&limit=25", 10, 2, 25, 25},
		{"Zero page clamps to one", "page=0", 10, 1, 10, 0},
		{"Negative page clamps to one", "page=-4", 10, 1, 10, 0},
		{"Zero limit falls back", "limit=0", 10, 1, 10, 0},
		{"Limit capped", "limit=5000", 10, 1, 100, 0},
		{"Non-numeric ignored", "page=abc&limit=xyz", 20, 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, tt.defaultLimit)
				return c.SendStatus(http.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedPage, got.Page)
			assert.Equal(t, tt.expectedLimit, got.Limit)
			assert.Equal(t, tt.expectedOffset, got.Offset())
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "category ID", humanizeParam("categoryId"))
}
