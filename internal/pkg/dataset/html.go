package dataset

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/keuda/internal/pkg/constants"
)

// HTMLSource reads tables from a published HTML page. A table is named by its
// data-sheet attribute, its id, or its caption, in that order.
type HTMLSource struct {
	URL        string
	httpClient *http.Client
}

func NewHTMLSource(url string, httpClient *http.Client) *HTMLSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTMLSource{URL: url, httpClient: httpClient}
}

func (s *HTMLSource) Name() string {
	return "html:" + s.URL
}

func (s *HTMLSource) Fetch(ctx context.Context) (*Workbook, error) {
	var doc *goquery.Document
	err := backoff.Retry(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
			if err != nil {
				return backoff.Permanent(err)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("httpClient.Do: %w", err)
			}
			defer func() {
				_ = resp.Body.Close()
			}()

			if resp.StatusCode == http.StatusNotFound {
				return backoff.Permanent(fmt.Errorf("%w: %s returned %s", constants.ErrMissingDataSource, s.URL, resp.Status))
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			doc, err = goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("goquery.NewDocumentFromReader: %w", err))
			}
			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	return parseHTMLTables(doc), nil
}

func parseHTMLTables(doc *goquery.Document) *Workbook {
	wb := &Workbook{}

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		name := tableName(table)
		if name == "" {
			return
		}

		t := RawTable{Name: name}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			// nested tables are read on their own
			if tr.Closest("table").Get(0) != table.Get(0) {
				return
			}

			// the first row is the header; later rows may lead with a <th> row header
			row := texts(tr.ChildrenFiltered("th, td"))
			if t.Header == nil {
				t.Header = row
				return
			}
			t.Rows = append(t.Rows, row)
		})

		wb.Tables = append(wb.Tables, t)
	})

	return wb
}

func tableName(table *goquery.Selection) string {
	if v, ok := table.Attr("data-sheet"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	if v, ok := table.Attr("id"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(table.ChildrenFiltered("caption").Text())
}

func texts(cells *goquery.Selection) []string {
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		out = append(out, strings.TrimSpace(c.Text()))
	})
	return out
}
