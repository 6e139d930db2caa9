package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// ParamID is the route parameter holding an entity id.
	ParamID = "id"
)

// ErrNilDeps is returned by Init if a dependency is missing.
var ErrNilDeps = errors.New("router or handler dependencies are nil")

// IDParam parses the :id route parameter. Non-numeric ids report false.
func IDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(ParamID), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
