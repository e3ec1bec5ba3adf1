package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"gradia/docs"
)

func TestSwaggerUI(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", SwaggerUI("api.gradia.test"))

	var wg sync.WaitGroup
	for _, host := range []string{"a.example", "b.example", "c.example"} {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = host
			req.Header.Set("X-Forwarded-Proto", "https")

			resp, err := app.Test(req)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), `"host": "api.gradia.test"`)
		}(host)
	}
	wg.Wait()

	assert.Equal(t, "api.gradia.test", docs.SwaggerInfo.Host)
	assert.Empty(t, docs.SwaggerInfo.Schemes)
}
