// Copyright (c) 2026 YumShare Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"testing"
)

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		totalItems  int
		perPage     int
		wantCurrent int
		wantTotal   int
		wantHasPrev bool
		wantHasNext bool
	}{
		{"empty set still has one page", 1, 0, 3, 1, 1, false, false},
		{"single partial page", 1, 2, 3, 1, 1, false, false},
		{"first of many", 1, 10, 3, 1, 4, false, true},
		{"middle page", 2, 10, 3, 2, 4, true, true},
		{"last page", 4, 10, 3, 4, 4, true, false},
		{"page clamped low", 0, 10, 3, 1, 4, false, true},
		{"page clamped high", 99, 10, 3, 4, 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.currentPage, tt.totalItems, tt.perPage, "/home", nil)

			if p.CurrentPage != tt.wantCurrent {
				t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, tt.wantCurrent)
			}
			if p.TotalPages != tt.wantTotal {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantTotal)
			}
			if p.HasPrev != tt.wantHasPrev {
				t.Errorf("HasPrev = %v, want %v", p.HasPrev, tt.wantHasPrev)
			}
			if p.HasNext != tt.wantHasNext {
				t.Errorf("HasNext = %v, want %v", p.HasNext, tt.wantHasNext)
			}
		})
	}
}

func TestPaginationPageLinks(t *testing.T) {
	// 30 pages, current in the middle: first page, ellipsis, a window of
	// five, ellipsis, last page.
	p := BuildPagination(15, 90, 3, "/home", nil)

	var numbers []int
	ellipses := 0
	for _, page := range p.Pages {
		if page.IsEllipsis {
			ellipses++
			continue
		}
		numbers = append(numbers, page.Number)
	}

	want := []int{1, 13, 14, 15, 16, 17, 30}
	if len(numbers) != len(want) {
		t.Fatalf("page numbers = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("page numbers = %v, want %v", numbers, want)
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipses = %d, want 2", ellipses)
	}

	for _, page := range p.Pages {
		if page.IsCurrent != (page.Number == 15) {
			t.Errorf("IsCurrent wrong for page %d", page.Number)
		}
	}
}

func TestPaginationURLs(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		p := BuildPagination(2, 10, 3, "/home", nil)
		if got := p.PageURL(3); got != "/home?page=3" {
			t.Errorf("PageURL = %q", got)
		}
		if got := p.PrevURL(); got != "/home?page=1" {
			t.Errorf("PrevURL = %q", got)
		}
		if got := p.NextURL(); got != "/home?page=3" {
			t.Errorf("NextURL = %q", got)
		}
	})

	t.Run("preserves other query parameters", func(t *testing.T) {
		params := url.Values{"page": {"2"}, "sort": {"title"}}
		p := BuildPagination(2, 10, 3, "/home", params)
		if got := p.PageURL(3); got != "/home?sort=title&page=3" {
			t.Errorf("PageURL = %q", got)
		}
	})
}

func TestPaginationShouldShow(t *testing.T) {
	if BuildPagination(1, 2, 3, "/home", nil).ShouldShow() {
		t.Error("ShouldShow true for a single page")
	}
	if !BuildPagination(1, 10, 3, "/home", nil).ShouldShow() {
		t.Error("ShouldShow false for multiple pages")
	}
}
