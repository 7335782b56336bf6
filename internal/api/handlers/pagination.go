package handlers

import (
	"strconv"

	"Recipe-Book/domain"

	"github.com/gofiber/fiber/v2"
)

const maxPageLimit = 100

func pageParams(c *fiber.Ctx) (int, int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func paginated(items any, page, limit int, count int64) fiber.Map {
	return fiber.Map{
		"items":      items,
		"pagination": domain.NewPagination(page, limit, count),
	}
}
