package sandbox

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageMeta mirrors the pagination envelope of the real backend.
type pageMeta struct {
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

type pagedResponse[T any] struct {
	Content []T `json:"content"`
	pageMeta
}

// window is a half-open [lo, hi) slice of the full result set.
type window struct {
	lo, hi int
}

func (w window) len() int { return w.hi - w.lo }

// pageParams reads page/size query parameters with the backend's defaults.
func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// paginate clamps a page window onto a result set of length total.
func paginate(total, page, size int) (window, pageMeta) {
	lo := page * size
	if lo > total {
		lo = total
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	pages := (total + size - 1) / size
	return window{lo: lo, hi: hi}, pageMeta{
		TotalElements: int64(total),
		TotalPages:    pages,
		Number:        page,
		Size:          size,
	}
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
