package dataset

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX_RoundTrip(t *testing.T) {
	content, err := WriteXLSX(sampleWorkbook())
	require.NoError(t, err)

	wb, err := ReadXLSX(bytes.NewReader(content))
	require.NoError(t, err)

	var names []string
	for _, tbl := range wb.Tables {
		names = append(names, tbl.Name)
	}
	assert.Equal(t, []string{"INFO", "PARAMETER", "INDIKATOR", "MEDIAN", "TREN"}, names)

	obs, ok := wb.Table("indikator")
	require.True(t, ok)
	assert.Equal(t, []string{"Aceh", "Rasio X", "2022", "tidak WTP"}, obs.Rows[0])
	assert.Equal(t, "5.2", obs.Rows[1][3])

	_, err = Normalize(context.Background(), wb, DefaultSchema())
	require.NoError(t, err)
}

func TestReplaceTableXLSX_KeepsOtherSheets(t *testing.T) {
	content, err := WriteXLSX(sampleWorkbook())
	require.NoError(t, err)

	updated, err := ReplaceTableXLSX(content, RawTable{
		Name:   "tren",
		Header: []string{"PEMDA", "INDIKATOR", "NILAI"},
		Rows:   [][]string{{"Aceh", "Rasio X", "KUNING"}},
	})
	require.NoError(t, err)

	wb, err := ReadXLSX(bytes.NewReader(updated))
	require.NoError(t, err)
	require.Len(t, wb.Tables, 5)

	tren, ok := wb.Table("TREN")
	require.True(t, ok)
	assert.Equal(t, "TREN", tren.Name, "sheet keeps its original name")
	assert.Equal(t, [][]string{{"Aceh", "Rasio X", "KUNING"}}, tren.Rows)

	info, ok := wb.Table("INFO")
	require.True(t, ok)
	assert.Equal(t, []string{"Aceh", "Provinsi", "3"}, info.Rows[0])
}

func TestReplaceTableXLSX_KeepsFormulasOnOtherSheets(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("MEDIAN")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("MEDIAN", "A1", &[]interface{}{"NILAI"}))
	require.NoError(t, f.SetCellValue("MEDIAN", "A2", 1))
	require.NoError(t, f.SetCellValue("MEDIAN", "A3", 2))
	require.NoError(t, f.SetCellFormula("MEDIAN", "A4", "SUM(A2:A3)"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"PEMDA", "NILAI"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Aceh", 1}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Bali", 2}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	updated, err := ReplaceTableXLSX(buf.Bytes(), RawTable{
		Name:   "sheet1",
		Header: []string{"PEMDA", "NILAI"},
		Rows:   [][]string{{"Aceh", "7"}},
	})
	require.NoError(t, err)

	out, err := excelize.OpenReader(bytes.NewReader(updated))
	require.NoError(t, err)
	defer func() {
		_ = out.Close()
	}()

	assert.Equal(t, []string{"Sheet1", "MEDIAN"}, out.GetSheetList())

	formula, err := out.GetCellFormula("MEDIAN", "A4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A2:A3)", formula)

	rows, err := out.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"PEMDA", "NILAI"}, {"Aceh", "7"}}, rows, "old rows are cleared")
}

func TestReplaceTableXLSX_AppendsUnknownSheet(t *testing.T) {
	content, err := WriteXLSX(sampleWorkbook())
	require.NoError(t, err)

	updated, err := ReplaceTableXLSX(content, RawTable{
		Name:   "CATATAN",
		Header: []string{"PEMDA", "CATATAN"},
		Rows:   [][]string{{"Aceh", "revisi"}},
	})
	require.NoError(t, err)

	wb, err := ReadXLSX(bytes.NewReader(updated))
	require.NoError(t, err)
	require.Len(t, wb.Tables, 6)
	assert.Equal(t, "CATATAN", wb.Tables[5].Name)
	assert.Equal(t, [][]string{{"Aceh", "revisi"}}, wb.Tables[5].Rows)
}

func TestXLSX_LongCodesStayText(t *testing.T) {
	content, err := WriteXLSX(&Workbook{Tables: []RawTable{{
		Name:   "INFO",
		Header: []string{"PEMDA", "KODE", "NILAI"},
		Rows:   [][]string{{"Aceh", "1234567890123456789", "5.25"}},
	}}})
	require.NoError(t, err)

	wb, err := ReadXLSX(bytes.NewReader(content))
	require.NoError(t, err)
	require.Len(t, wb.Tables, 1)
	assert.Equal(t, []string{"Aceh", "1234567890123456789", "5.25"}, wb.Tables[0].Rows[0])

	assert.Equal(t, "1234567890123456789", cellValue("1234567890123456789"))
	assert.Equal(t, 5.25, cellValue("5.25"))
	assert.Equal(t, "1e2", cellValue("1e2"))
}

func TestFileSource(t *testing.T) {
	content, err := WriteXLSX(sampleWorkbook())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	wb, err := NewFileSource(path).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, wb.Version, 64)
	assert.Len(t, wb.Tables, 5)
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.xlsx")).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrMissingDataSource)
}

type fakeRemote struct {
	file *github.File
	err  error
}

func (f *fakeRemote) Name() string { return "fake" }

func (f *fakeRemote) Get(context.Context) (*github.File, error) {
	return f.file, f.err
}

func TestRemoteSource(t *testing.T) {
	content, err := WriteXLSX(sampleWorkbook())
	require.NoError(t, err)

	wb, err := NewRemoteSource(&fakeRemote{file: &github.File{Path: "data.xlsx", SHA: "abc", Content: content}}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", wb.Version)
}

func TestRemoteSource_NotAWorkbook(t *testing.T) {
	_, err := NewRemoteSource(&fakeRemote{file: &github.File{Path: "data.xlsx", Content: []byte("plain text")}}).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrMissingDataSource)
}

const publishedPage = `<html><body>
<table data-sheet="INFO">
  <thead><tr><th>PEMDA</th><th>TINGKAT</th><th>KLASTER</th></tr></thead>
  <tbody><tr><td>Aceh</td><td>Provinsi</td><td>3</td></tr></tbody>
</table>
<table id="PARAMETER">
  <tr><td>INDIKATOR</td><td>JENIS</td></tr>
  <tr><td>Rasio X</td><td>Kinerja Keuangan</td></tr>
</table>
<table>
  <caption> TREN </caption>
  <tr><th>PEMDA</th><th>INDIKATOR</th><th>NILAI</th></tr>
  <tr><td>Aceh</td><td>Rasio X</td><td>hijau</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestHTMLSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(publishedPage))
	}))
	defer srv.Close()

	wb, err := NewHTMLSource(srv.URL, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, wb.Tables, 3)

	info, ok := wb.Table("INFO")
	require.True(t, ok)
	assert.Equal(t, []string{"PEMDA", "TINGKAT", "KLASTER"}, info.Header)
	assert.Equal(t, [][]string{{"Aceh", "Provinsi", "3"}}, info.Rows)

	param, ok := wb.Table("PARAMETER")
	require.True(t, ok)
	assert.Equal(t, []string{"INDIKATOR", "JENIS"}, param.Header)
	assert.Len(t, param.Rows, 1)

	_, ok = wb.Table("TREN")
	assert.True(t, ok)
}

func TestParseHTMLTables_RowHeaderCells(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<table data-sheet="INDIKATOR">
  <tr><th>PEMDA</th><th>INDIKATOR</th><th>TAHUN</th><th>NILAI</th></tr>
  <tr><th>EntityA</th><td>Ratio X</td><td>2021</td><td>5.2</td></tr>
  <tr><td>EntityB</td><td>Ratio X</td><td>2021</td><td>4.1</td></tr>
</table>`))
	require.NoError(t, err)

	wb := parseHTMLTables(doc)
	require.Len(t, wb.Tables, 1)

	tbl := wb.Tables[0]
	assert.Equal(t, []string{"PEMDA", "INDIKATOR", "TAHUN", "NILAI"}, tbl.Header)
	assert.Equal(t, [][]string{
		{"EntityA", "Ratio X", "2021", "5.2"},
		{"EntityB", "Ratio X", "2021", "4.1"},
	}, tbl.Rows)
}

func TestHTMLSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTMLSource(srv.URL, srv.Client()).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, constants.ErrMissingDataSource)
}

type countingSource struct {
	mx    sync.Mutex
	calls int32
	wb    *Workbook
	err   error
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Fetch(context.Context) (*Workbook, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.wb, s.err
}

func TestCache_LoadsOnceUntilReload(t *testing.T) {
	src := &countingSource{wb: sampleWorkbook()}
	cache := NewCache(src, DefaultSchema())
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&src.calls))
	assert.Equal(t, "counting", first.Source)

	reloaded, err := cache.Reload(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))
}

func TestCache_DoesNotCacheFailures(t *testing.T) {
	src := &countingSource{err: errors.New("boom")}
	cache := NewCache(src, DefaultSchema())
	ctx := context.Background()

	_, err := cache.Get(ctx)
	require.Error(t, err)

	src.mx.Lock()
	src.err = nil
	src.wb = sampleWorkbook()
	src.mx.Unlock()

	ds, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ds)
	assert.EqualValues(t, 2, atomic.LoadInt32(&src.calls))
}
