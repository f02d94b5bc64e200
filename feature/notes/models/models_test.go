package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetail_Complete(t *testing.T) {
	tests := []struct {
		name      string
		fulfilled int
		target    int
		want      bool
	}{
		{"Empty", 0, 3, false},
		{"Partial", 2, 3, false},
		{"AtTarget", 3, 3, true},
		{"OverTarget", 4, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detail{FulfilledQuantity: tt.fulfilled, TargetQuantity: tt.target}
			assert.Equal(t, tt.want, d.Complete())
		})
	}
}

func TestDetail_HasSeries(t *testing.T) {
	d := Detail{Series: []string{"A1B2", "C3D4"}}

	assert.True(t, d.HasSeries("A1B2"))
	assert.False(t, d.HasSeries("A1B"), "prefix must not match")
	assert.False(t, d.HasSeries("ZZZZ"))
	assert.False(t, Detail{}.HasSeries("A1B2"))
}

func TestDetail_Validate(t *testing.T) {
	valid := Detail{Code: "1234", TargetQuantity: 2, FulfilledQuantity: 1}
	assert.Empty(t, valid.Validate())

	assert.Contains(t, Detail{TargetQuantity: 1}.Validate(), "missing code")
	assert.Contains(t, Detail{Code: "1234"}.Validate(), "positive")
	assert.Contains(t, Detail{Code: "1234", TargetQuantity: 1, FulfilledQuantity: 2}.Validate(), "exceeds")
	assert.Contains(t, Detail{Code: "1234", TargetQuantity: 1, FulfilledQuantity: -1}.Validate(), "negative")
}

func TestSeriesRoundTrip(t *testing.T) {
	assert.Equal(t, "A1,B2,C3", JoinSeries([]string{"A1", "B2", "C3"}))
	assert.Equal(t, []string{"A1", "B2", "C3"}, SplitSeries("A1,B2,C3"))

	// Empty entries and whitespace are dropped
	assert.Equal(t, []string{"A1", "B2"}, SplitSeries("A1,, B2 ,"))
	assert.Nil(t, SplitSeries(""))
	assert.Nil(t, SplitSeries(" , "))
}

func TestDetailRow_ToNormalized(t *testing.T) {
	row := DetailRow{
		ID:                "d1",
		NoteID:            "n1",
		Code:              "1234",
		TargetQuantity:    3,
		FulfilledQuantity: 2,
		SeriesList:        "A1,B2",
		Status:            string(DetailPending),
		Version:           7,
	}

	d := row.ToNormalized()
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, []string{"A1", "B2"}, d.Series)
	assert.Equal(t, int64(7), d.Version)
	assert.Equal(t, DetailPending, d.Status)

	back := DetailRowFrom(d)
	assert.Equal(t, row, back)
}

func TestNoteKind(t *testing.T) {
	assert.True(t, KindImport.Valid())
	assert.True(t, KindExport.Valid())
	assert.True(t, KindWarranty.Valid())
	assert.False(t, NoteKind("lease").Valid())

	assert.False(t, KindImport.UsesSeries())
	assert.True(t, KindExport.UsesSeries())
	assert.True(t, KindWarranty.UsesSeries())
}
