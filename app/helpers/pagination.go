package helpers

import (
	"net/http"
	"strconv"
)

// Detail is the error body shape shared by every non-2xx response.
type Detail struct {
	Detail string `json:"detail"`
}

// Page is the list envelope: {count, next, previous, results}.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// PageParam reads the page query parameter, defaulting to 1.
func PageParam(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// InvalidPage reports a page past the end of a non-empty result set. The
// first page is always valid so an empty set still renders as an empty page.
func InvalidPage(total int64, page, pageSize int) bool {
	return page > 1 && int64((page-1)*pageSize) >= total
}

// NewPage builds the envelope. Next and previous are the request path with
// the page parameter adjusted, null at either edge.
func NewPage(r *http.Request, total int64, page, pageSize int, results interface{}) Page {
	envelope := Page{Count: total, Results: results}

	if int64(page*pageSize) < total {
		envelope.Next = pageLink(r, page+1)
	}
	if page > 1 {
		envelope.Previous = pageLink(r, page-1)
	}
	return envelope
}

func pageLink(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := u.RequestURI()
	return &link
}
