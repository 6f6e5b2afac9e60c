package results

import (
	"database/sql"

	"github.com/wgdzlh/gcbmanim/layer"
	"github.com/wgdzlh/gcbmanim/log"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteTag = "SQLiteProvider:"

// SQLiteProvider reads a compiled GCBM results database.
type SQLiteProvider struct {
	db *sql.DB
}

func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Error(sqliteTag+"open results db failed", zap.String("path", dbPath), zap.Error(err))
		return nil, err
	}
	return &SQLiteProvider{db: db}, nil
}

func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

func (p *SQLiteProvider) SimulationYears() (start, end int, err error) {
	row := p.db.QueryRow(`SELECT MIN(year), MAX(year) FROM v_age_indicators`)
	var lo, hi sql.NullInt64
	if err = row.Scan(&lo, &hi); err != nil {
		log.Error(sqliteTag+"query simulation years failed", zap.Error(err))
		return
	}
	if !lo.Valid || !hi.Valid {
		err = ErrNoResults
		return
	}
	return int(lo.Int64), int(hi.Int64), nil
}

func (p *SQLiteProvider) AnnualResult(f Filter, startYear, endYear int, units layer.Units) (map[int]float64, error) {
	if startYear == 0 || endYear == 0 {
		var err error
		if startYear, endYear, err = p.SimulationYears(); err != nil {
			return nil, err
		}
	}
	rows, err := p.db.Query(`
		SELECT year, COALESCE(SUM(flux_tc), 0)
		FROM v_flux_indicator_aggregates
		WHERE indicator = ? AND year BETWEEN ? AND ?
		GROUP BY year`, f.Indicator, startYear, endYear)
	if err != nil {
		log.Error(sqliteTag+"query annual result failed",
			zap.String("indicator", f.Indicator), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]float64, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		result[year] = 0
	}
	scale := units.Scale
	if scale == 0 {
		scale = 1
	}
	found := false
	for rows.Next() {
		var (
			year  int
			value float64
		)
		if err = rows.Scan(&year, &value); err != nil {
			return nil, err
		}
		result[year] = value / scale
		found = true
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoResults
	}
	return result, nil
}
