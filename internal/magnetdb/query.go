package magnetdb

import (
	"net/url"
	"strconv"
)

// ListOptions filters and pages an index call. Zero values are not sent, so
// the server's defaults apply (page 1, 25 per page, sorted by created_at).
type ListOptions struct {
	Query    string
	Page     int
	PerPage  int
	SortBy   string
	SortDesc bool
	Status   string
	// Type is only honoured by the parts index.
	Type string
}

func (o ListOptions) values(withType bool) url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Query != "" {
		q.Set("query", o.Query)
	}
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.SortBy != "" || o.SortDesc {
		q.Set("sort_desc", strconv.FormatBool(o.SortDesc))
	}
	if o.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(o.PerPage))
	}
	if o.Status != "" {
		q.Set("status", o.Status)
	}
	if withType && o.Type != "" {
		q.Set("type", o.Type)
	}
	return q
}
