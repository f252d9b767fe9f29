package helpers

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	_, _, ok := ParsePaginationParams(queryContext(""))
	assert.False(t, ok)

	page, size, ok := ParsePaginationParams(queryContext("page=3&size=20"))
	assert.True(t, ok)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, size)

	page, size, ok = ParsePaginationParams(queryContext("page=x&size=100000"))
	assert.True(t, ok)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(2, 10, 25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = CalculateSliceIndices(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(9, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestCalculateSliceIndices_HugePageDoesNotOverflow(t *testing.T) {
	start, end := CalculateSliceIndices(math.MaxInt64, 500, 3)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)

	start, end = CalculateSliceIndices(math.MaxInt, MaxPageSize, 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 9, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 3, info.CurrentPage)
	assert.Equal(t, 1, NewPaginationInfo(0, 1, 10).TotalPages)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}

func TestParseDuration_RejectsEmptyAndNonPositive(t *testing.T) {
	assert.Equal(t, time.Minute, ParseDuration("", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration(" -5s ", time.Minute))
	assert.Equal(t, 30*time.Second, ParseDuration(" 30s", time.Minute))
}
