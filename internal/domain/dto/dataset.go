package dto

import (
	"time"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/dataset"
)

type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type WorkbookResponse struct {
	Version string  `json:"version"`
	Tables  []Table `json:"tables"`
}

func NewWorkbookResponse(wb *dataset.Workbook) WorkbookResponse {
	resp := WorkbookResponse{Version: wb.Version, Tables: make([]Table, 0, len(wb.Tables))}
	for _, t := range wb.Tables {
		resp.Tables = append(resp.Tables, Table{Name: t.Name, Header: t.Header, Rows: t.Rows})
	}
	return resp
}

// TableRequest replaces one sheet. Version is the token returned with the snapshot the
// edit was made on.
type TableRequest struct {
	Table   string     `param:"table" json:"-" validate:"required"`
	Header  []string   `json:"header" validate:"required,min=1"`
	Rows    [][]string `json:"rows"`
	Version string     `json:"version" validate:"required"`
}

func (r *TableRequest) RawTable() dataset.RawTable {
	return dataset.RawTable{Name: r.Table, Header: r.Header, Rows: r.Rows}
}

type VersionResponse struct {
	Version string `json:"version"`
}

type ReloadResponse struct {
	Source       string    `json:"source"`
	Version      string    `json:"version"`
	LoadedAt     time.Time `json:"loaded_at"`
	Entities     int       `json:"entities"`
	Indicators   int       `json:"indicators"`
	Observations int       `json:"observations"`
}

func NewReloadResponse(ds *domain.Dataset) ReloadResponse {
	return ReloadResponse{
		Source:       ds.Source,
		Version:      ds.Version,
		LoadedAt:     ds.LoadedAt,
		Entities:     len(ds.Entities),
		Indicators:   len(ds.Definitions),
		Observations: len(ds.Observations),
	}
}
