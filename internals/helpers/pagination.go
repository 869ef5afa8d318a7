package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Paging struct {
	Page     int
	PageSize int
	Offset   int
	Limit    int
}

// ResolvePaging reads ?page= and ?page_size= (alias ?per_page=) and normalises
// them. Pages past the end are kept as-is; the query just returns no rows.
func ResolvePaging(c *fiber.Ctx, defaultPageSize, maxPageSize int) Paging {
	pageStr := strings.TrimSpace(c.Query("page", "1"))

	sizeStr := strings.TrimSpace(c.Query("page_size"))
	if sizeStr == "" {
		sizeStr = strings.TrimSpace(c.Query("per_page"))
	}
	page, _ := strconv.Atoi(pageStr)
	size, _ := strconv.Atoi(sizeStr)
	return NewPaging(page, size, defaultPageSize, maxPageSize)
}

func NewPaging(page, pageSize, defaultPageSize, maxPageSize int) Paging {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	// keep (page-1)*pageSize inside int
	if maxPage := math.MaxInt / pageSize; page > maxPage {
		page = maxPage
	}
	return Paging{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
}
