package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ginContextWithQuery(raw string) *gin.Context {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/?"+raw, nil)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"task", "idea"}, splitCSV("task, idea"))
	assert.Nil(t, splitCSV(""))
	assert.Equal(t, []string{"task"}, splitCSV("task,,"))
}

func TestParseOptionalInt(t *testing.T) {
	n := parseOptionalInt("7")
	if assert.NotNil(t, n) {
		assert.Equal(t, 7, *n)
	}
	assert.Nil(t, parseOptionalInt(""))
	assert.Nil(t, parseOptionalInt("not-a-number"))
}

func TestParsePage_Defaults(t *testing.T) {
	c := ginContextWithQuery("")
	page, err := parsePage(c)
	assert.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestParsePage_RejectsOutOfRangeLimit(t *testing.T) {
	c := ginContextWithQuery("limit=500")
	_, err := parsePage(c)
	assert.Error(t, err)
}

func TestParsePage_RejectsNegativeOffset(t *testing.T) {
	c := ginContextWithQuery("offset=-1")
	_, err := parsePage(c)
	assert.Error(t, err)
}

func TestParsePage_ValidValues(t *testing.T) {
	c := ginContextWithQuery((url.Values{"limit": {"50"}, "offset": {"10"}}).Encode())
	page, err := parsePage(c)
	assert.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
	assert.Equal(t, 10, page.Offset)
}

func TestApiTimezoneOrUTC(t *testing.T) {
	assert.Equal(t, "UTC", apiTimezoneOrUTC("").String())
	assert.Equal(t, "UTC", apiTimezoneOrUTC("Not/AZone").String())
	assert.Equal(t, "Asia/Almaty", apiTimezoneOrUTC("Asia/Almaty").String())
}

func TestEndOfWeek_Monday(t *testing.T) {
	mon := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC) // a Monday
	end := endOfWeek(mon)
	assert.Equal(t, time.Monday, end.Weekday())
	assert.Equal(t, 7, int(end.Sub(mon).Hours()/24))
}

func TestEndOfWeek_Sunday(t *testing.T) {
	sun := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC) // a Sunday
	end := endOfWeek(sun)
	assert.Equal(t, time.Monday, end.Weekday())
	assert.Equal(t, 1, int(end.Sub(sun).Hours()/24))
}
