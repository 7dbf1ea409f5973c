package domain

import (
	"errors"
	"math"
	"testing"
)

func TestTaskQueryFilterDefaults(t *testing.T) {
	t.Parallel()

	f, err := TaskQuery{Page: -3}.Filter()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.Sort != SortDesc {
		t.Errorf("Expected default sort desc, got %q", f.Sort)
	}
	if f.Page != 1 {
		t.Errorf("Expected page 1, got %d", f.Page)
	}
	if f.Offset() != 0 {
		t.Errorf("Expected offset 0, got %d", f.Offset())
	}
}

func TestTaskQueryFilterNormalizes(t *testing.T) {
	t.Parallel()

	f, err := TaskQuery{
		Search:      "  milk ",
		Status:      "In Progress",
		DueDateFrom: "2025-01-01",
		DueDateTo:   "2025-01-31",
		Sort:        "ASC",
		Page:        3,
	}.Filter()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.Search != "milk" || f.Status != TaskStatusInProgress || f.Sort != SortAsc {
		t.Errorf("Unexpected filter %+v", f)
	}
	if f.DueDateFrom == nil || f.DueDateTo == nil {
		t.Fatal("Expected both date bounds")
	}
	if f.Offset() != 20 {
		t.Errorf("Expected offset 20, got %d", f.Offset())
	}
}

func TestTaskQueryFilterRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	_, err := TaskQuery{DueDateFrom: "yesterday", Sort: "sideways"}.Filter()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	for _, field := range []string{"due_date_from", "sort"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("Expected failure for %s", field)
		}
	}
}

func TestTaskQueryFilterKeepsUnknownStatus(t *testing.T) {
	t.Parallel()

	f, err := TaskQuery{Status: " Someday "}.Filter()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.Status != TaskStatus("Someday") {
		t.Errorf("Expected status Someday, got %q", f.Status)
	}
}

func TestTaskQueryFilterDropsLoneDateBound(t *testing.T) {
	t.Parallel()

	for _, q := range []TaskQuery{{DueDateFrom: "2025-06-01"}, {DueDateTo: "2025-06-01"}} {
		f, err := q.Filter()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if f.DueDateFrom != nil || f.DueDateTo != nil {
			t.Errorf("Expected lone bound in %+v to be dropped, got %+v", q, f)
		}
	}
}

func TestTaskQueryFilterClampsHugePage(t *testing.T) {
	t.Parallel()

	f, err := TaskQuery{Page: math.MaxInt}.Filter()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.Page != MaxTaskPage {
		t.Errorf("Expected page %d, got %d", MaxTaskPage, f.Page)
	}
	if f.Offset() <= 0 {
		t.Errorf("Expected positive offset, got %d", f.Offset())
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a, _ := TaskQuery{Search: "x", Page: 1}.Filter()
	b, _ := TaskQuery{Search: " x ", Page: 0}.Filter()
	c, _ := TaskQuery{Search: "x", Page: 2}.Filter()
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("Expected equivalent queries to share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("Expected different pages to differ")
	}
}

func TestNewPageInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page       int
		total      int64
		totalPages int
		hasMore    bool
	}{
		{1, 0, 0, false},
		{1, 1, 1, false},
		{1, 10, 1, false},
		{1, 11, 2, true},
		{2, 11, 2, false},
		{3, 25, 3, false},
		{5, 25, 3, false},
	}
	for _, tt := range tests {
		p := NewPageInfo(tt.page, TaskPageSize, tt.total)
		if p.TotalPages != tt.totalPages || p.HasMorePages != tt.hasMore {
			t.Errorf("NewPageInfo(%d, %d): got pages=%d more=%v, want pages=%d more=%v",
				tt.page, tt.total, p.TotalPages, p.HasMorePages, tt.totalPages, tt.hasMore)
		}
		if p.PerPage != TaskPageSize || p.CurrentPage != tt.page {
			t.Errorf("Unexpected page info %+v", p)
		}
	}
}
