package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters plus the optional search term
type Params struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// Parse extracts and validates page/limit/search from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: c.Query("search"),
	}
}

// Link is a single pagination control: previous, a page number, or next.
// URL is null when the control is not navigable.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is the listing payload consumed by the dashboard tables: a bounded
// slice of rows plus the metadata needed to render pagination controls.
type Page struct {
	Data        interface{} `json:"data"`
	From        int         `json:"from"`
	To          int         `json:"to"`
	Total       int64       `json:"total"`
	CurrentPage int         `json:"current_page"`
	LastPage    int         `json:"last_page"`
	Links       []Link      `json:"links"`
}

// NewPage assembles a Page from one slice of rows. count is the number of
// rows in data; total is the filtered row count across all pages.
func NewPage(data interface{}, count int, total int64, p Params, basePath string) Page {
	lastPage := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if lastPage < 1 {
		lastPage = 1
	}

	from, to := 0, 0
	if count > 0 {
		from = p.Offset + 1
		to = p.Offset + count
	}

	return Page{
		Data:        data,
		From:        from,
		To:          to,
		Total:       total,
		CurrentPage: p.Page,
		LastPage:    lastPage,
		Links:       buildLinks(p, lastPage, basePath),
	}
}

// buildLinks emits previous, one link per page number, then next. Interior
// entries mark the current page active; previous/next drop their URL at
// the edges.
func buildLinks(p Params, lastPage int, basePath string) []Link {
	links := make([]Link, 0, lastPage+2)

	prev := Link{Label: "&laquo; Previous"}
	if p.Page > 1 {
		prev.URL = pageURL(basePath, p.Page-1, p.Search)
	}
	links = append(links, prev)

	for i := 1; i <= lastPage; i++ {
		links = append(links, Link{
			URL:    pageURL(basePath, i, p.Search),
			Label:  strconv.Itoa(i),
			Active: i == p.Page,
		})
	}

	next := Link{Label: "Next &raquo;"}
	if p.Page < lastPage {
		next.URL = pageURL(basePath, p.Page+1, p.Search)
	}
	links = append(links, next)

	return links
}

func pageURL(basePath string, page int, search string) *string {
	u := fmt.Sprintf("%s?page=%d", basePath, page)
	if search != "" {
		u += "&search=" + url.QueryEscape(search)
	}
	return &u
}
