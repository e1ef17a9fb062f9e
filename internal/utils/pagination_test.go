package utils

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewSlice(t *testing.T) {
	req := PageRequest{Number: 0, Size: 15}
	rows := make([]int, 16)

	s := NewSlice(rows, req)
	assert.Len(t, s.Content, 15)
	assert.True(t, s.HasNext)
	assert.False(t, s.HasPrevious)

	s = NewSlice(rows[:1], PageRequest{Number: 1, Size: 15})
	assert.Len(t, s.Content, 1)
	assert.False(t, s.HasNext)
	assert.True(t, s.HasPrevious)

	s = NewSlice[int](nil, req)
	assert.NotNil(t, s.Content)
	assert.Empty(t, s.Content)
}

func TestGetPageRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]int{
		"/clients":          0,
		"/clients?page=3":   3,
		"/clients?page=abc": 0,
		"/clients?page=-2":  0,
	}
	last := math.MaxInt/15 - 1
	for url, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", url, nil)

		req := GetPageRequest(c)
		assert.Equal(t, want, req.Number, url)
		assert.Equal(t, 15, req.Size, url)
		assert.Equal(t, want*15, req.Offset(), url)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/clients?page=614891469123651721", nil)
	req := GetPageRequest(c)
	assert.Equal(t, last, req.Number)
	assert.Positive(t, req.Offset())
	assert.LessOrEqual(t, req.Offset(), math.MaxInt-15-1, "offset plus look-ahead limit still fits")
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 0, ClampPage(-1, 15))
	assert.Equal(t, 4, ClampPage(4, 15))
	assert.Equal(t, math.MaxInt/15-1, ClampPage(math.MaxInt, 15))
}
