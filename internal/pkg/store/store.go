package store

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ougirez/keuda/internal/pkg/dataset"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"github.com/ougirez/keuda/internal/pkg/store/xpgx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type Pool = xpgx.Pool

// TableSource serves the dataset from Postgres, one database table per logical table.
// Table names are the schema's table names in lower case.
type TableSource struct {
	pool   Pool
	tables []string
}

func NewTableSource(pool Pool, schema dataset.Schema) *TableSource {
	return &TableSource{pool: pool, tables: schema.TableNames()}
}

func (s *TableSource) Name() string {
	return "postgres"
}

func (s *TableSource) Fetch(ctx context.Context) (*dataset.Workbook, error) {
	tables := make([]dataset.RawTable, len(s.tables))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, name := range s.tables {
		i, name := i, name
		eg.Go(func() error {
			t, err := s.readTable(egCtx, name)
			if err != nil {
				logger.Errorf(ctx, "readTable %s: %s", name, err.Error())
				return fmt.Errorf("readTable, table-%s: %w", name, err)
			}
			tables[i] = *t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &dataset.Workbook{Tables: tables}, nil
}

func tableQuery(name string) sq.SelectBuilder {
	return builder().Select("*").From(pgx.Identifier{strings.ToLower(name)}.Sanitize())
}

func (s *TableSource) readTable(ctx context.Context, name string) (*dataset.RawTable, error) {
	rows, err := xpgx.Queryx(ctx, s.pool, tableQuery(name))
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	t := &dataset.RawTable{Name: name}
	for _, fd := range rows.FieldDescriptions() {
		t.Header = append(t.Header, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, wrapErr(err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = stringify(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	return t, nil
}

// stringify renders a column value the way a spreadsheet cell would hold it.
func stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case pgtype.Numeric:
		if !x.Valid || x.NaN || x.InfinityModifier != pgtype.Finite || x.Int == nil {
			return ""
		}
		return decimal.NewFromBigInt(x.Int, x.Exp).String()
	case driver.Valuer:
		dv, err := x.Value()
		if err != nil || dv == nil {
			return ""
		}
		return stringify(dv)
	default:
		return fmt.Sprint(x)
	}
}
