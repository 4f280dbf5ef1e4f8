package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination, sorting and search parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
	SortBy string
	Desc   bool
	Search string
}

// Parse extracts and validates page/limit/sort/search from query parameters.
// allowedSort restricts sort columns; an unknown column falls back to the
// first allowed one.
func Parse(c *gin.Context, allowedSort ...string) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := c.Query("sort")
	if len(allowedSort) > 0 {
		valid := false
		for _, col := range allowedSort {
			if sortBy == col {
				valid = true
				break
			}
		}
		if !valid {
			sortBy = allowedSort[0]
		}
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		SortBy: sortBy,
		Desc:   strings.EqualFold(c.Query("order"), "desc"),
		Search: strings.TrimSpace(c.Query("search")),
	}
}

// OrderClause renders the SQL ORDER BY expression for the params
func (p Params) OrderClause() string {
	if p.SortBy == "" {
		return ""
	}
	if p.Desc {
		return p.SortBy + " DESC"
	}
	return p.SortBy + " ASC"
}
