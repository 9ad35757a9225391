package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/overline-lab/backstrat/internal/backtest/batch"
	"github.com/overline-lab/backstrat/mocks"
	"github.com/overline-lab/backstrat/pkg/marketdata/writer"
)

type BackstratCmdTestSuite struct {
	suite.Suite
	tempDir string
}

func TestBackstratCmdSuite(t *testing.T) {
	suite.Run(t, new(BackstratCmdTestSuite))
}

func (suite *BackstratCmdTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *BackstratCmdTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.tempDir, name)
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	return path
}

// writeBarsCSV generates a deterministic bar series and writes it as a CSV
// file the run command can consume.
func (suite *BackstratCmdTestSuite) writeBarsCSV(name string, count int) string {
	path := filepath.Join(suite.tempDir, name)

	w := writer.NewDuckDBWriter(path)
	suite.Require().NoError(w.Initialize())

	gen := mocks.NewDataGenerator(42)
	config := mocks.DefaultConfig()
	config.Symbol = "AAPL"
	config.Count = count
	for _, bar := range gen.Generate(config) {
		suite.Require().NoError(w.Write(bar))
	}

	_, err := w.Finalize()
	suite.Require().NoError(err)
	suite.Require().NoError(w.Close())

	return path
}

func (suite *BackstratCmdTestSuite) TestLoadRunConfigDefaults() {
	config, err := loadRunConfig("")
	suite.Require().NoError(err)
	suite.InDelta(100000.0, config.InitialCapital, 1e-9)
	suite.Equal(50, config.MinHistoryBars)
}

func (suite *BackstratCmdTestSuite) TestLoadRunConfigOverlaysDocument() {
	path := suite.writeFile("run.yaml", "initial_capital: 25000\nstop_loss_pct: 0.1\n")

	config, err := loadRunConfig(path)
	suite.Require().NoError(err)
	suite.InDelta(25000.0, config.InitialCapital, 1e-9)
	suite.InDelta(0.1, config.StopLossPct, 1e-9)
	suite.InDelta(0.001, config.CommissionRate, 1e-9)
}

func (suite *BackstratCmdTestSuite) TestLoadRunConfigMissingFile() {
	_, err := loadRunConfig(filepath.Join(suite.tempDir, "absent.yaml"))
	suite.Error(err)
}

func (suite *BackstratCmdTestSuite) TestLoadBatchFile() {
	path := suite.writeFile("batch.yaml", `run:
  initial_capital: 50000
concurrency: 2
items:
  - symbol: AAPL
    strategy: rsi
    data_path: data/AAPL.csv
  - symbol: MSFT
    strategy: golden_cross
    data_path: data/MSFT.csv
`)

	config, items, err := loadBatchFile(path)
	suite.Require().NoError(err)
	suite.InDelta(50000.0, config.Run.InitialCapital, 1e-9)
	suite.Equal(2, config.Concurrency)
	suite.Require().Len(items, 2)
	suite.Equal(batch.Item{Symbol: "AAPL", Strategy: "rsi", DataPath: "data/AAPL.csv"}, items[0])
	suite.Equal("golden_cross", items[1].Strategy)
}

func (suite *BackstratCmdTestSuite) TestLoadBatchFileDefaults() {
	path := suite.writeFile("batch.yaml", `items:
  - symbol: AAPL
    strategy: rsi
    data_path: data/AAPL.csv
`)

	config, items, err := loadBatchFile(path)
	suite.Require().NoError(err)
	suite.Equal(batch.DefaultConcurrency, config.Concurrency)
	suite.InDelta(100000.0, config.Run.InitialCapital, 1e-9)
	suite.Len(items, 1)
}

func (suite *BackstratCmdTestSuite) TestStrategiesCommand() {
	err := newRootCommand().Run(context.Background(), []string{"backstrat", "strategies"})
	suite.Require().NoError(err)
}

func (suite *BackstratCmdTestSuite) TestSchemaCommands() {
	suite.Require().NoError(newRootCommand().Run(context.Background(),
		[]string{"backstrat", "schema"}))
	suite.Require().NoError(newRootCommand().Run(context.Background(),
		[]string{"backstrat", "schema", "--strategy", "rsi"}))
	suite.Require().NoError(newRootCommand().Run(context.Background(),
		[]string{"backstrat", "schema", "--provider", "binance"}))
	suite.Require().Error(newRootCommand().Run(context.Background(),
		[]string{"backstrat", "schema", "--strategy", "does_not_exist"}))
}

func (suite *BackstratCmdTestSuite) TestRunCommand() {
	dataPath := suite.writeBarsCSV("AAPL.csv", 150)
	outputDir := filepath.Join(suite.tempDir, "results")

	err := newRootCommand().Run(context.Background(), []string{
		"backstrat", "run",
		"--symbol", "AAPL",
		"--strategy", "rsi",
		"--data", dataPath,
		"--output", outputDir,
	})
	suite.Require().NoError(err)

	entries, err := os.ReadDir(outputDir)
	suite.Require().NoError(err)
	suite.NotEmpty(entries)
}

func (suite *BackstratCmdTestSuite) TestRunCommandFailedRun() {
	// 30 bars cannot clear the default 50-bar warm-up.
	dataPath := suite.writeBarsCSV("short.csv", 30)

	err := newRootCommand().Run(context.Background(), []string{
		"backstrat", "run",
		"--symbol", "AAPL",
		"--strategy", "rsi",
		"--data", dataPath,
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "backtest failed")
}

func (suite *BackstratCmdTestSuite) TestBatchCommand() {
	dataPath := suite.writeBarsCSV("AAPL.csv", 150)
	configPath := suite.writeFile("batch.yaml", `concurrency: 2
items:
  - symbol: AAPL
    strategy: rsi
    data_path: `+dataPath+`
  - symbol: AAPL
    strategy: ma_crossover
    data_path: `+dataPath+`
`)

	err := newRootCommand().Run(context.Background(), []string{
		"backstrat", "batch",
		"--config", configPath,
		"--no-progress",
	})
	suite.Require().NoError(err)
}

func (suite *BackstratCmdTestSuite) TestInitCommand() {
	dir := filepath.Join(suite.tempDir, "config")

	err := newRootCommand().Run(context.Background(), []string{
		"backstrat", "init",
		"--dir", dir,
	})
	suite.Require().NoError(err)

	suite.FileExists(filepath.Join(dir, runSchemaName))

	// The scaffolded samples must load through the same paths the run and
	// batch commands use.
	config, err := loadRunConfig(filepath.Join(dir, "run.yaml"))
	suite.Require().NoError(err)
	suite.InDelta(100000.0, config.InitialCapital, 1e-9)
	suite.Require().NoError(config.Validate())

	batchConfig, items, err := loadBatchFile(filepath.Join(dir, "batch.yaml"))
	suite.Require().NoError(err)
	suite.Equal(batch.DefaultConcurrency, batchConfig.Concurrency)
	suite.Require().Len(items, 1)
	suite.Equal("AAPL", items[0].Symbol)
}

func (suite *BackstratCmdTestSuite) TestInitCommandKeepsExistingSamples() {
	dir := filepath.Join(suite.tempDir, "config")
	suite.Require().NoError(os.MkdirAll(dir, 0o755))

	runPath := filepath.Join(dir, "run.yaml")
	suite.Require().NoError(os.WriteFile(runPath, []byte("initial_capital: 42000\n"), 0o644))

	err := newRootCommand().Run(context.Background(), []string{
		"backstrat", "init",
		"--dir", dir,
	})
	suite.Require().NoError(err)

	config, err := loadRunConfig(runPath)
	suite.Require().NoError(err)
	suite.InDelta(42000.0, config.InitialCapital, 1e-9)
}
