package layout

import (
	"testing"

	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() Grid {
	return Grid{Rows: 2, Cols: 3, PageWidth: 600, PageHeight: 900, Margin: 20}
}

func TestGridPlace(t *testing.T) {
	g := testGrid()

	tests := []struct {
		name  string
		index int
		want  PageCell
	}{
		{
			name:  "first cell",
			index: 0,
			want:  PageCell{Index: 0, Row: 0, Col: 0, Page: 0, OriginX: 20, OriginY: 880},
		},
		{
			name:  "end of first row",
			index: 2,
			want:  PageCell{Index: 2, Row: 0, Col: 2, Page: 0, OriginX: 420, OriginY: 880},
		},
		{
			name:  "second row",
			index: 4,
			want:  PageCell{Index: 4, Row: 1, Col: 1, Page: 0, OriginX: 220, OriginY: 430},
		},
		{
			name:  "last cell of page",
			index: 5,
			want:  PageCell{Index: 5, Row: 1, Col: 2, Page: 0, OriginX: 420, OriginY: 430},
		},
		{
			name:  "first cell of second page",
			index: 6,
			want:  PageCell{Index: 6, Row: 0, Col: 0, Page: 1, OriginX: 20, OriginY: 880, PageBreakBefore: true},
		},
		{
			name:  "third page",
			index: 13,
			want:  PageCell{Index: 13, Row: 0, Col: 1, Page: 2, OriginX: 220, OriginY: 880},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Place(tt.index)
			assert.Equal(t, tt.want.Row, got.Row)
			assert.Equal(t, tt.want.Col, got.Col)
			assert.Equal(t, tt.want.Page, got.Page)
			assert.InDelta(t, tt.want.OriginX, got.OriginX, 1e-9)
			assert.InDelta(t, tt.want.OriginY, got.OriginY, 1e-9)
			assert.Equal(t, tt.want.PageBreakBefore, got.PageBreakBefore)
		})
	}
}

func TestGridPageBreaksOnlyOnMultiples(t *testing.T) {
	g := testGrid()
	for i := 0; i < 40; i++ {
		assert.Equal(t, i > 0 && i%6 == 0, g.Place(i).PageBreakBefore, "index %d", i)
	}
}

func TestGridPageCount(t *testing.T) {
	g := testGrid()

	tests := []struct {
		invoices int
		want     int
	}{
		{invoices: 0, want: 1},
		{invoices: 1, want: 2},
		{invoices: 6, want: 2},
		{invoices: 7, want: 3},
		{invoices: 12, want: 3},
		{invoices: 13, want: 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.PageCount(tt.invoices), "%d invoices", tt.invoices)
	}
}

func TestGridCellSize(t *testing.T) {
	g := Grid{Rows: 2, Cols: 3, PageWidth: 595.28, PageHeight: 841.89, Margin: 20}
	require.NoError(t, g.Validate())
	assert.InDelta(t, 198.4267, g.CellWidth(), 1e-4)
	assert.InDelta(t, 420.945, g.CellHeight(), 1e-4)
	assert.Equal(t, 6, g.PerPage())
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
	}{
		{name: "zero rows", grid: Grid{Rows: 0, Cols: 3, PageWidth: 600, PageHeight: 900}},
		{name: "zero cols", grid: Grid{Rows: 2, Cols: 0, PageWidth: 600, PageHeight: 900}},
		{name: "no page", grid: Grid{Rows: 2, Cols: 3}},
		{name: "negative margin", grid: Grid{Rows: 2, Cols: 3, PageWidth: 600, PageHeight: 900, Margin: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.grid.Validate()
			require.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
