package models

import (
	"strings"
	"time"
)

// NoteRow is the persisted representation of a Note.
type NoteRow struct {
	ID        string    `gorm:"column:id;primaryKey;size:36"`
	Kind      string    `gorm:"column:kind;size:16;index"`
	Name      string    `gorm:"column:name;size:128"`
	Status    string    `gorm:"column:status;size:32"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the table name for notes.
func (NoteRow) TableName() string {
	return "notes"
}

// ToNormalized converts the persisted row to the domain model.
func (r NoteRow) ToNormalized() Note {
	return Note{
		ID:        r.ID,
		Kind:      NoteKind(r.Kind),
		Name:      r.Name,
		Status:    NoteStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

// NoteRowFrom converts a domain note to its persisted representation.
func NoteRowFrom(n Note) NoteRow {
	return NoteRow{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Name:      n.Name,
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt,
	}
}

// DetailRow is the persisted representation of a Detail.
// Series numbers are stored comma-joined in series_list.
type DetailRow struct {
	ID                string `gorm:"column:id;primaryKey;size:36"`
	NoteID            string `gorm:"column:note_id;size:36;index"`
	Code              string `gorm:"column:code;size:16"`
	TargetQuantity    int    `gorm:"column:target_quantity"`
	FulfilledQuantity int    `gorm:"column:fulfilled_quantity"`
	SeriesList        string `gorm:"column:series_list;type:text"`
	Status            string `gorm:"column:status;size:32"`
	Version           int64  `gorm:"column:version"`
}

// TableName overrides the table name for note details.
func (DetailRow) TableName() string {
	return "note_details"
}

// ToNormalized converts the persisted row to the domain model.
func (r DetailRow) ToNormalized() Detail {
	return Detail{
		ID:                r.ID,
		NoteID:            r.NoteID,
		Code:              r.Code,
		TargetQuantity:    r.TargetQuantity,
		FulfilledQuantity: r.FulfilledQuantity,
		Series:            SplitSeries(r.SeriesList),
		Status:            DetailStatus(r.Status),
		Version:           r.Version,
	}
}

// DetailRowFrom converts a domain detail to its persisted representation.
func DetailRowFrom(d Detail) DetailRow {
	return DetailRow{
		ID:                d.ID,
		NoteID:            d.NoteID,
		Code:              d.Code,
		TargetQuantity:    d.TargetQuantity,
		FulfilledQuantity: d.FulfilledQuantity,
		SeriesList:        JoinSeries(d.Series),
		Status:            string(d.Status),
		Version:           d.Version,
	}
}

// JoinSeries renders a series slice into its comma-joined persisted form.
func JoinSeries(series []string) string {
	return strings.Join(series, ",")
}

// SplitSeries parses the comma-joined persisted form, dropping empty entries.
func SplitSeries(list string) []string {
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	series := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			series = append(series, p)
		}
	}
	if len(series) == 0 {
		return nil
	}
	return series
}
