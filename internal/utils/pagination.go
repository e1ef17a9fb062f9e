package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
)

// PageRequest selects one zero-based window of a result set.
type PageRequest struct {
	Number int
	Size   int
}

// Offset returns the number of rows preceding the window.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// ClampPage bounds number to the pages whose offset fits in an int.
// Negative numbers become the first page.
func ClampPage(number, size int) int {
	if number < constants.FirstPage {
		return constants.FirstPage
	}
	if size > 0 && number > math.MaxInt/size-1 {
		return math.MaxInt/size - 1
	}
	return number
}

// FirstPage returns page 0 with the default client page size.
func FirstPage() PageRequest {
	return PageRequest{Number: constants.FirstPage, Size: constants.ClientPageSize}
}

// Slice is one window of results with neighbour flags.
type Slice[T any] struct {
	Content     []T
	Number      int
	Size        int
	HasNext     bool
	HasPrevious bool
}

// NewSlice builds a Slice from rows fetched with one extra look-ahead row.
func NewSlice[T any](rows []T, req PageRequest) Slice[T] {
	hasNext := len(rows) > req.Size
	if hasNext {
		rows = rows[:req.Size]
	}
	if rows == nil {
		rows = []T{}
	}
	return Slice[T]{
		Content:     rows,
		Number:      req.Number,
		Size:        req.Size,
		HasNext:     hasNext,
		HasPrevious: req.Number > 0,
	}
}

// GetPageRequest reads ?page=N. A missing, non-numeric or negative value means page 0;
// a page too large to address is clamped to the last addressable one.
func GetPageRequest(c *gin.Context) PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = constants.FirstPage
	}
	return PageRequest{Number: ClampPage(page, constants.ClientPageSize), Size: constants.ClientPageSize}
}
