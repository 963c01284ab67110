package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page-number pagination defaults shared by list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads page/page_size query parameters, clamping the size to the
// server maximum.
func pageParams(c *gin.Context) (page, pageSize, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}

// paginated wraps list results in the standard envelope
func paginated(count int64, page, pageSize int, results interface{}) gin.H {
	return gin.H{
		"count":     count,
		"page":      page,
		"page_size": pageSize,
		"results":   results,
	}
}

// limitParam reads a bounded limit query parameter
func limitParam(c *gin.Context, name string, def, max int) int {
	limit, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(def)))
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
