package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// TrendsResponse lists trending hashtags for a window.
type TrendsResponse struct {
	Trends      []domain.Trend `json:"trends"`
	WindowHours int            `json:"window_hours" example:"24"`
}

// maxWindowHours is the largest window expressible as a time.Duration.
const maxWindowHours = math.MaxInt64 / int64(time.Hour)

// GetTrends godoc
// @ID          getTrends
// @Summary     Trending hashtags
// @Description Counts hashtag usage over tweets created in the last window_hours and returns
// @Description the most used tags with up to three sample tweets each.
// @Tags        Trends
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       window_hours   query   int     false "Window length in hours" minimum(1) default(24)
// @Param       limit          query   int     false "Max trends" minimum(1) default(10)
//
// @Success     200  {object} handlers.TrendsResponse
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid window"
// @Failure     504  {object} handlers.ErrorResponse "Timeout"
// @Router      /trends [get]
func (h *Handlers) GetTrends(c *gin.Context) {
	def := int(h.opts.TrendWindow / time.Hour)
	if def < 1 {
		def = 1
	}
	hours, valid := queryInt(c, "window_hours", def)
	if !valid {
		return
	}
	limit, valid := queryInt(c, "limit", h.opts.TrendLimit)
	if !valid {
		return
	}
	if hours <= 0 || int64(hours) > maxWindowHours {
		fail(c, http.StatusBadRequest, ErrCodeInvalidWindow, "window_hours out of range")
		return
	}

	trends, err := h.trends.GetTrending(c.Request.Context(), time.Duration(hours)*time.Hour, limit)
	if err != nil {
		failErr(c, err)
		return
	}
	if trends == nil {
		trends = []domain.Trend{}
	}
	okETag(c, TrendsResponse{Trends: trends, WindowHours: hours})
}
