package ts

import (
	"context"
	"math"
	"time"

	"github.com/ivande/combiner/frame"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/kelseyhightower/envconfig"
)

// DWHConfig is read from DWH_* environment variables.
type DWHConfig struct {
	PGCon string `envconfig:"PG_CON" required:"true"`
}

// LoadDWHConfig reads the warehouse settings. DWH_PG_CON is required.
func LoadDWHConfig() (*DWHConfig, error) {
	var cfg DWHConfig
	if err := envconfig.Process("DWH", &cfg); err != nil {
		return nil, errors.Wrap(err, "DWH_PG_CON environment variable is not set")
	}
	return &cfg, nil
}

// Connect opens a connection to the warehouse.
func Connect(ctx context.Context, cfg *DWHConfig) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, cfg.PGCon)
	if err != nil {
		return nil, errors.Wrap(err, "connect to DWH")
	}
	return conn, nil
}

// Querier is satisfied by *pgx.Conn, pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const localSalesQuery = `
select
	event as holiday,
	ds_start as ds,
	duration as upper_window
from
	dict.bank_sales`

// Holiday table columns, in output order.
const (
	HolidayCol     = "holiday"
	DSCol          = "ds"
	LowerWindowCol = "lower_window"
	UpperWindowCol = "upper_window"
)

// LoadLocalSales reads the bank sales calendar and returns it as a holiday
// table (holiday, ds, lower_window, upper_window) extended to next year.
func LoadLocalSales(ctx context.Context, q Querier) (*frame.Table, error) {
	rows, err := q.Query(ctx, localSalesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "query local sales")
	}
	defer rows.Close()

	var (
		names  []string
		nulls  []bool
		dates  []time.Time
		uppers []float64
	)
	for rows.Next() {
		var (
			holiday *string
			ds      *time.Time
			upper   *int64
		)
		if err := rows.Scan(&holiday, &ds, &upper); err != nil {
			return nil, errors.Wrap(err, "scan local sales row")
		}
		names = append(names, deref(holiday))
		nulls = append(nulls, holiday == nil)
		dates = append(dates, deref(ds))
		if upper == nil {
			uppers = append(uppers, math.NaN())
		} else {
			uppers = append(uppers, float64(*upper))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read local sales")
	}

	tbl, err := frame.New(
		frame.NewStringWithNulls(HolidayCol, names, nulls),
		frame.NewTime(DSCol, dates),
		frame.NewFloat(LowerWindowCol, make([]float64, len(dates))),
		frame.NewFloat(UpperWindowCol, uppers),
	)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("ts").Debug("local sales loaded", log.SamplesKey, tbl.NumRows())
	return ExtendHolidaysToNextYear(tbl, DSCol)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
