package writer

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	dir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (s *DuckDBWriterTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
}

func (s *DuckDBWriterTestSuite) sampleBars() []types.Bar {
	base := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	bars := make([]types.Bar, 3)
	for i := range bars {
		bars[i] = types.Bar{
			Symbol: "AAPL",
			Time:   base.Add(time.Duration(i) * time.Minute),
			Open:   100.0 + float64(i),
			High:   101.0 + float64(i),
			Low:    99.5 + float64(i),
			Close:  100.5 + float64(i),
			Volume: 1000.0 * float64(i+1),
		}
	}
	return bars
}

func (s *DuckDBWriterTestSuite) readParquet(path string) []types.Bar {
	db, err := sql.Open("duckdb", ":memory:")
	s.Require().NoError(err)
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT time, symbol, open, high, low, close, volume FROM read_parquet('%s')",
		path,
	)
	rows, err := db.Query(query)
	s.Require().NoError(err)
	defer rows.Close()

	var bars []types.Bar
	for rows.Next() {
		var bar types.Bar
		s.Require().NoError(rows.Scan(
			&bar.Time, &bar.Symbol,
			&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume,
		))
		bars = append(bars, bar)
	}
	s.Require().NoError(rows.Err())
	return bars
}

func (s *DuckDBWriterTestSuite) TestWriteAndFinalizeParquet() {
	outputPath := filepath.Join(s.dir, "AAPL_1m.parquet")
	w := NewDuckDBWriter(outputPath)
	s.Require().NoError(w.Initialize())
	defer w.Close()

	for _, bar := range s.sampleBars() {
		s.Require().NoError(w.Write(bar))
	}

	path, err := w.Finalize()
	s.Require().NoError(err)
	s.Equal(outputPath, path)
	s.FileExists(path)

	bars := s.readParquet(path)
	s.Require().Len(bars, 3)
	s.Equal("AAPL", bars[0].Symbol)
	s.InDelta(100.0, bars[0].Open, 1e-9)
	s.InDelta(102.5, bars[2].Close, 1e-9)
	s.InDelta(3000.0, bars[2].Volume, 1e-9)
}

func (s *DuckDBWriterTestSuite) TestWriteAndFinalizeCSV() {
	outputPath := filepath.Join(s.dir, "AAPL_1m.csv")
	w := NewDuckDBWriter(outputPath)
	s.Require().NoError(w.Initialize())
	defer w.Close()

	bars := s.sampleBars()
	for _, bar := range bars[:2] {
		s.Require().NoError(w.Write(bar))
	}

	path, err := w.Finalize()
	s.Require().NoError(err)
	s.FileExists(path)

	content, err := os.ReadFile(path)
	s.Require().NoError(err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	s.Require().Len(lines, 3, "expected a header line plus one line per bar")
	s.Equal("time,symbol,open,high,low,close,volume", lines[0])
	s.Contains(lines[1], "AAPL")
}

func (s *DuckDBWriterTestSuite) TestFinalizeOrdersByTime() {
	outputPath := filepath.Join(s.dir, "ordered.parquet")
	w := NewDuckDBWriter(outputPath)
	s.Require().NoError(w.Initialize())
	defer w.Close()

	bars := s.sampleBars()
	// Write the newest bar first; the export should still come out sorted.
	s.Require().NoError(w.Write(bars[2]))
	s.Require().NoError(w.Write(bars[0]))
	s.Require().NoError(w.Write(bars[1]))

	path, err := w.Finalize()
	s.Require().NoError(err)

	read := s.readParquet(path)
	s.Require().Len(read, 3)
	for i := 1; i < len(read); i++ {
		s.True(read[i].Time.After(read[i-1].Time), "bars should be sorted by time")
	}
}

func (s *DuckDBWriterTestSuite) TestUnsupportedExtension() {
	w := NewDuckDBWriter(filepath.Join(s.dir, "data.json"))
	err := w.Initialize()
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (s *DuckDBWriterTestSuite) TestWriteBeforeInitialize() {
	w := NewDuckDBWriter(filepath.Join(s.dir, "data.parquet"))
	err := w.Write(s.sampleBars()[0])
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
}

func (s *DuckDBWriterTestSuite) TestCloseWithoutFinalizeDropsBars() {
	outputPath := filepath.Join(s.dir, "dropped.parquet")
	w := NewDuckDBWriter(outputPath)
	s.Require().NoError(w.Initialize())
	s.Require().NoError(w.Write(s.sampleBars()[0]))

	s.Require().NoError(w.Close())
	s.NoFileExists(outputPath)
}

func (s *DuckDBWriterTestSuite) TestCloseIsIdempotent() {
	w := NewDuckDBWriter(filepath.Join(s.dir, "idempotent.parquet"))
	s.Require().NoError(w.Initialize())
	s.Require().NoError(w.Close())
	s.Require().NoError(w.Close())
}

func (s *DuckDBWriterTestSuite) TestGetOutputPath() {
	outputPath := filepath.Join(s.dir, "path.parquet")
	w := NewDuckDBWriter(outputPath)
	s.Equal(outputPath, w.GetOutputPath())
}
