package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// MaxPage bounds page numbers so offsets stay representable for any page size.
const MaxPage = 1 << 20

// ParsePage reads a 1-based page number. Missing, malformed or non-positive
// values fall back to the first page; huge values are capped at MaxPage.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		// still a page number, just past any real result set
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return MaxPage
		}
		return 1
	}

	if page < 1 {
		return 1
	}
	if page > MaxPage {
		return MaxPage
	}

	return page
}

// PageOffset saturates at math.MaxInt instead of wrapping negative.
func PageOffset(page, size int) int {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		return 0
	}

	if page-1 > math.MaxInt/size {
		return math.MaxInt
	}

	return (page - 1) * size
}
