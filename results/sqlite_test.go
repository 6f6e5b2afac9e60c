package results

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/gcbmanim/layer"
)

func newTestDB(t *testing.T, fill bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compiled_results.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE v_age_indicators (year INTEGER, indicator TEXT, area REAL)`,
		`CREATE TABLE v_flux_indicator_aggregates (indicator TEXT, year INTEGER, flux_tc REAL)`,
	}
	for _, s := range stmts {
		if _, err = db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	if !fill {
		return path
	}
	inserts := []string{
		`INSERT INTO v_age_indicators (year) VALUES (2010), (2011), (2012)`,
		`INSERT INTO v_flux_indicator_aggregates VALUES
			('NPP', 2010, 100), ('NPP', 2010, 50), ('NPP', 2011, 200),
			('Rh', 2011, 75)`,
	}
	for _, s := range inserts {
		if _, err = db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestSimulationYears(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	start, end, err := p.SimulationYears()
	if err != nil {
		t.Fatal(err)
	}
	if start != 2010 || end != 2012 {
		t.Fatal(start, end)
	}
}

func TestSimulationYearsEmpty(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, false))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if _, _, err = p.SimulationYears(); err != ErrNoResults {
		t.Fatal(err)
	}
}

func TestAnnualResult(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	data, err := p.AnnualResult(Filter{Indicator: "NPP"}, 2010, 2012, layer.Tc)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 {
		t.Fatal(data)
	}
	// Same-year fluxes sum; years without rows fill in at zero.
	if data[2010] != 150 || data[2011] != 200 || data[2012] != 0 {
		t.Fatal(data)
	}
}

func TestAnnualResultScaled(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	data, err := p.AnnualResult(Filter{Indicator: "NPP"}, 2010, 2011, layer.Ktc)
	if err != nil {
		t.Fatal(err)
	}
	if data[2010] != 0.15 || data[2011] != 0.2 {
		t.Fatal(data)
	}
}

func TestAnnualResultDefaultSpan(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	// Zero years fall back to the full simulation span.
	data, err := p.AnnualResult(Filter{Indicator: "Rh"}, 0, 0, layer.Tc)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 3 || data[2011] != 75 {
		t.Fatal(data)
	}
}

func TestAnnualResultUnknownIndicator(t *testing.T) {
	p, err := NewSQLiteProvider(newTestDB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if _, err = p.AnnualResult(Filter{Indicator: "Soil C"}, 2010, 2012, layer.Tc); err != ErrNoResults {
		t.Fatal(err)
	}
}
