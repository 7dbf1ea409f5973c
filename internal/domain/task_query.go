package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskPageSize is the fixed number of tasks per listing page.
const TaskPageSize = 10

// MaxTaskPage caps requested pages so Offset stays well inside int range.
// Pages past the last one simply come back empty.
const MaxTaskPage = 1_000_000

// SortDirection orders listings by creation time.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// TaskQuery holds listing parameters as received from a client.
// Empty strings mean "not supplied".
type TaskQuery struct {
	Search      string
	Status      string
	DueDateFrom string
	DueDateTo   string
	Sort        string
	Page        int
}

// TaskFilter is a validated, normalized TaskQuery. All supplied criteria
// apply conjunctively.
type TaskFilter struct {
	Search      string
	Status      TaskStatus
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Sort        SortDirection
	Page        int
}

// Filter validates q and returns the normalized filter. Sort defaults to
// descending and pages are clamped to [1, MaxTaskPage]. A status outside the
// known set is kept and matches nothing. The due-date range applies only when
// both bounds are supplied; a lone bound is validated and then dropped.
func (q TaskQuery) Filter() (TaskFilter, error) {
	verr := &ValidationError{}
	f := TaskFilter{
		Search: strings.TrimSpace(q.Search),
		Status: TaskStatus(strings.TrimSpace(q.Status)),
		Sort:   SortDesc,
		Page:   ClampPage(q.Page),
	}

	f.DueDateFrom = parseBound(verr, "due_date_from", q.DueDateFrom)
	f.DueDateTo = parseBound(verr, "due_date_to", q.DueDateTo)
	if f.DueDateFrom == nil || f.DueDateTo == nil {
		f.DueDateFrom, f.DueDateTo = nil, nil
	}

	if s := strings.ToLower(strings.TrimSpace(q.Sort)); s != "" {
		switch SortDirection(s) {
		case SortAsc, SortDesc:
			f.Sort = SortDirection(s)
		default:
			verr.Add("sort", FieldMessage("sort", "in", ""))
		}
	}

	if err := verr.ErrOrNil(); err != nil {
		return TaskFilter{}, err
	}
	return f, nil
}

// ClampPage bounds page to [1, MaxTaskPage].
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxTaskPage:
		return MaxTaskPage
	}
	return page
}

func parseBound(verr *ValidationError, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := ParseDate(raw)
	if err != nil {
		verr.Add(field, FieldMessage(field, "date", ""))
		return nil
	}
	return &d
}

// Offset returns the number of rows to skip for the filter's page.
func (f TaskFilter) Offset() int {
	return (f.Page - 1) * TaskPageSize
}

// Fingerprint renders the filter as a canonical string. Equal filters
// produce equal fingerprints.
func (f TaskFilter) Fingerprint() string {
	return fmt.Sprintf("search=%s|status=%s|from=%s|to=%s|sort=%s|page=%d",
		f.Search, f.Status, formatBound(f.DueDateFrom), formatBound(f.DueDateTo), f.Sort, f.Page)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// PageInfo describes where a page sits within a listing.
type PageInfo struct {
	CurrentPage  int   `json:"current_page"`
	PerPage      int   `json:"per_page"`
	Total        int64 `json:"total"`
	TotalPages   int   `json:"total_pages"`
	HasMorePages bool  `json:"has_more_pages"`
}

// NewPageInfo computes pagination metadata; TotalPages is ceil(total/perPage).
func NewPageInfo(page, perPage int, total int64) PageInfo {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return PageInfo{
		CurrentPage:  page,
		PerPage:      perPage,
		Total:        total,
		TotalPages:   totalPages,
		HasMorePages: page < totalPages,
	}
}

// TaskListing is one page of a user's filtered tasks.
type TaskListing struct {
	Items      []Task   `json:"items"`
	Pagination PageInfo `json:"pagination"`
}
