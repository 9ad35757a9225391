package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/overline-lab/backstrat/internal/types"
)

// DataGenerator generates realistic bar series for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bar data is generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical per-bar volatility)
	Volatility float64
	// Trend is the total drift applied across the whole series
	// (-0.2 to 0.2 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a daily-bar configuration covering roughly one
// trading year.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.01, // 1% per bar
		Trend:          0.0,  // neutral
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
	}
}

// Segment is one leg of a piecewise series: Count bars sharing a trend and
// volatility regime. Prices are continuous across segment boundaries.
type Segment struct {
	// Count is the number of bars in this segment
	Count int
	// Trend is the total drift applied across the segment
	Trend float64
	// Volatility is the per-bar volatility inside the segment
	Volatility float64
}

// Generate creates a bar series based on the configuration. Prices follow a
// geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	data := make([]types.Bar, 0, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		drift := config.Trend / float64(config.Count)

		var bar types.Bar
		bar, currentPrice = g.nextBar(config, currentTime, currentPrice, config.Volatility, drift)
		data = append(data, bar)

		currentTime = currentTime.Add(config.Interval)
	}

	return data
}

// GenerateSegments creates a bar series from consecutive regimes, useful for
// exercising stop-loss and drawdown behavior with a controlled rally or
// crash. The config's Count, Trend and Volatility fields are ignored; each
// segment supplies its own.
func (g *DataGenerator) GenerateSegments(config GeneratorConfig, segments ...Segment) []types.Bar {
	var data []types.Bar

	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for _, segment := range segments {
		for i := 0; i < segment.Count; i++ {
			drift := segment.Trend / float64(segment.Count)

			var bar types.Bar
			bar, currentPrice = g.nextBar(config, currentTime, currentPrice, segment.Volatility, drift)
			data = append(data, bar)

			currentTime = currentTime.Add(config.Interval)
		}
	}

	return data
}

// nextBar generates one OHLCV bar opening at the given price and returns the
// bar together with its close, which seeds the next bar.
func (g *DataGenerator) nextBar(config GeneratorConfig, barTime time.Time, open, volatility, drift float64) (types.Bar, float64) {
	// Box-Muller transform for a normally distributed price change
	u1 := g.rng.Float64()
	u2 := g.rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

	priceChange := volatility * z

	close := open * (1 + priceChange + drift)
	if close <= 0 {
		close = open * 0.99 // Prevent negative prices
	}

	// High and low are within the open-close range plus some extension
	highExtension := math.Abs(g.rng.Float64() * volatility * open * 0.5)
	lowExtension := math.Abs(g.rng.Float64() * volatility * open * 0.5)

	high := math.Max(open, close) + highExtension
	low := math.Min(open, close) - lowExtension
	if low <= 0 {
		low = math.Min(open, close) * 0.99
	}

	// Volume with variance
	volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
	volume := config.VolumeBase * volumeVariation
	if volume < 0 {
		volume = config.VolumeBase * 0.1
	}

	bar := types.Bar{
		Symbol: config.Symbol,
		Time:   barTime,
		Open:   roundToDecimals(open, 4),
		High:   roundToDecimals(high, 4),
		Low:    roundToDecimals(low, 4),
		Close:  roundToDecimals(close, 4),
		Volume: roundToDecimals(volume, 2),
	}

	return bar, close
}

// GenerateMultiSymbol generates data for multiple symbols.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.Bar {
	var allData []types.Bar

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		symbolData := g.Generate(config)
		allData = append(allData, symbolData...)
	}

	return allData
}

// Generate10K is a convenience function to generate 10,000 bars with default
// settings for benchmarking.
func Generate10K(symbol string) []types.Bar {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = 10000
	return gen.Generate(config)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
