package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) sampleResult() RunResult {
	entry := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	return RunResult{
		ID:       "2f1a9c5e-run",
		Symbol:   "AAPL",
		Strategy: "ma_crossover",
		Status:   RunStatusCompleted,
		Trades: []Trade{
			{
				Symbol:      "AAPL",
				EntryTime:   entry,
				ExitTime:    entry.AddDate(0, 0, 5),
				EntryPrice:  100.05,
				ExitPrice:   108.0,
				Shares:      10,
				PnL:         77.44,
				PnLPct:      0.0773,
				HoldingBars: 5,
				ExitReason:  ExitReasonSignalExit,
			},
		},
		Metrics: PerformanceMetrics{
			TotalReturn:    0.0077,
			TotalTrades:    1,
			WinningTrades:  1,
			WinRate:        1.0,
			InitialCapital: 100000,
			FinalEquity:    100077.44,
		},
		BuyHoldReturn: 0.012,
		StartedAt:     entry,
		FinishedAt:    entry.AddDate(0, 0, 6),
	}
}

func (suite *ReportTestSuite) TestWriteAndReadRunReports() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "reports.yaml")

	result := suite.sampleResult()
	report := NewRunReport(result, "data/AAPL.csv", "results/state.db")

	err := WriteRunReports(path, []RunReport{report})
	suite.Require().NoError(err)

	loaded, err := ReadRunReports(path)
	suite.Require().NoError(err)
	suite.Require().Len(loaded, 1)

	suite.Assert().Equal(report.ID, loaded[0].ID)
	suite.Assert().Equal(report.Symbol, loaded[0].Symbol)
	suite.Assert().Equal(report.Strategy, loaded[0].Strategy)
	suite.Assert().Equal(RunStatusCompleted, loaded[0].Status)
	suite.Assert().Len(loaded[0].Trades, 1)
	suite.Assert().Equal(ExitReasonSignalExit, loaded[0].Trades[0].ExitReason)
	suite.Assert().InDelta(report.Metrics.FinalEquity, loaded[0].Metrics.FinalEquity, 1e-9)
	suite.Assert().Equal("data/AAPL.csv", loaded[0].DataPath)
}

func (suite *ReportTestSuite) TestWriteRunReportsCreatesFile() {
	dir := suite.T().TempDir()
	path := filepath.Join(dir, "reports.yaml")

	err := WriteRunReports(path, nil)
	suite.Require().NoError(err)

	info, err := os.Stat(path)
	suite.Require().NoError(err)
	suite.Assert().False(info.IsDir())
}

func (suite *ReportTestSuite) TestReadRunReportsMissingFile() {
	_, err := ReadRunReports(filepath.Join(suite.T().TempDir(), "absent.yaml"))
	suite.Assert().Error(err)
}

func (suite *ReportTestSuite) TestFailedRunReport() {
	result := RunResult{
		ID:           "run-err",
		Symbol:       "TSLA",
		Strategy:     "golden_cross",
		Status:       RunStatusFailed,
		ErrorMessage: "strategy golden_cross requires 210 bars, got 48",
	}

	report := NewRunReport(result, "", "")
	suite.Assert().Equal(RunStatusFailed, report.Status)
	suite.Assert().NotEmpty(report.ErrorMessage)
	suite.Assert().Empty(report.Trades)
	suite.Assert().False(result.Completed())
}
