package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gradia/internal/http/middleware"
)

var errUnauthenticated = fiber.NewError(fiber.StatusUnauthorized, "Authentication credentials were not provided.")

// currentUserID returns the ID of the user authenticated by middleware.Auth.
func currentUserID(c *fiber.Ctx) (string, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return "", errUnauthenticated
	}
	return u.ID, nil
}

// pathID reads a UUID path parameter. Anything else cannot name a row.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// queryID reads an optional UUID query parameter.
func queryID(c *fiber.Ctx, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		return "", true
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

// queryIDs reads a repeatable UUID query parameter, e.g. ?category=a&category=b.
func queryIDs(c *fiber.Ctx, name string) ([]string, bool) {
	raw := c.Context().QueryArgs().PeekMulti(name)
	if len(raw) == 0 {
		return nil, true
	}
	ids := make([]string, 0, len(raw))
	for _, b := range raw {
		v := string(b)
		if _, err := uuid.Parse(v); err != nil {
			return nil, false
		}
		ids = append(ids, v)
	}
	return ids, true
}

// queryBool reads an optional boolean query parameter.
func queryBool(c *fiber.Ctx, name string) (*bool, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, false
	}
	return &b, true
}

// malformedID returns the name of the first non-empty body field that is not
// a UUID. Pairs are given as name, value.
func malformedID(pairs ...string) (string, bool) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		if _, err := uuid.Parse(pairs[i+1]); err != nil {
			return pairs[i], true
		}
	}
	return "", false
}

func invalidID(c *fiber.Ctx, name string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", name+" must be a valid id")
}

func notFound(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
}

func invalidFilter(c *fiber.Ctx, name string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "invalid "+name+" filter")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
