package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
)

func memoryBar(day int, close float64) types.Bar {
	t := time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)

	return types.Bar{
		Symbol: "TEST",
		Time:   t,
		Open:   close - 0.5,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1000,
	}
}

func TestMemorySourceSortsAndDeduplicates(t *testing.T) {
	dup := memoryBar(2, 999)

	source := NewMemorySource([]types.Bar{
		memoryBar(3, 103),
		memoryBar(1, 101),
		memoryBar(2, 102),
		dup,
	})

	bars, err := Collect(source, optional.None[time.Time](), optional.None[time.Time]())
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, 1, bars[0].Time.Day())
	assert.Equal(t, 2, bars[1].Time.Day())
	assert.Equal(t, 3, bars[2].Time.Day())

	// The first occurrence of a duplicated timestamp wins.
	assert.InDelta(t, 102.0, bars[1].Close, 1e-9)
}

func TestMemorySourceKeepsDistinctSymbolsAtSameTime(t *testing.T) {
	other := memoryBar(2, 500)
	other.Symbol = "ALT"

	source := NewMemorySource([]types.Bar{
		memoryBar(1, 101),
		memoryBar(2, 102),
		other,
	})

	count, err := source.Count(optional.None[time.Time](), optional.None[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMemorySourceWindow(t *testing.T) {
	source := NewMemorySource([]types.Bar{
		memoryBar(1, 101),
		memoryBar(2, 102),
		memoryBar(3, 103),
		memoryBar(4, 104),
	})

	bars, err := Collect(source,
		optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		optional.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
	)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2, bars[0].Time.Day())
	assert.Equal(t, 3, bars[1].Time.Day())
}

func TestMemorySourceDoesNotAliasInput(t *testing.T) {
	input := []types.Bar{memoryBar(1, 101)}
	source := NewMemorySource(input)

	input[0].Close = -1

	bars, err := Collect(source, optional.None[time.Time](), optional.None[time.Time]())
	require.NoError(t, err)
	assert.InDelta(t, 101.0, bars[0].Close, 1e-9)
}

func TestMemorySourceEmpty(t *testing.T) {
	source := NewMemorySource(nil)

	bars, err := Collect(source, optional.None[time.Time](), optional.None[time.Time]())
	require.NoError(t, err)
	assert.Empty(t, bars)

	count, err := source.Count(optional.None[time.Time](), optional.None[time.Time]())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, source.Initialize("ignored"))
	require.NoError(t, source.Close())
}
