package utils

import "testing"

func TestCreatePagination(t *testing.T) {
	p := CreatePagination(95, 2, 10)

	if p.TotalItems != 95 || p.CurrentPage != 2 || p.PageSize != 10 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if p.TotalPages != 10 {
		t.Errorf("expected 10 total pages, got %d", p.TotalPages)
	}
}

func TestCreatePaginationDefaults(t *testing.T) {
	p := CreatePagination(5, 0, 0)

	if p.CurrentPage != 1 {
		t.Errorf("expected default page 1, got %d", p.CurrentPage)
	}
	if p.PageSize != 10 {
		t.Errorf("expected default page size 10, got %d", p.PageSize)
	}
	if p.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", p.TotalPages)
	}
}

func TestCreatePaginationEmpty(t *testing.T) {
	p := CreatePagination(0, 1, 10)
	if p.TotalPages != 0 {
		t.Errorf("expected 0 total pages, got %d", p.TotalPages)
	}
}
