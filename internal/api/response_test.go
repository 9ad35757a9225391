package api

import (
	"encoding/json"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overline-lab/backstrat/internal/types"
	"github.com/overline-lab/backstrat/pkg/errors"
)

func TestMetricsResponseScrubsNonFiniteValues(t *testing.T) {
	m := types.PerformanceMetrics{
		TotalReturn:  0.25,
		TotalTrades:  3,
		ProfitFactor: math.Inf(1),
		SharpeRatio:  math.NaN(),
		FinalEquity:  125000,
	}

	resp := newMetricsResponse(m)
	assert.Nil(t, resp.ProfitFactor)
	assert.Nil(t, resp.SharpeRatio)
	require.NotNil(t, resp.TotalReturn)
	assert.InDelta(t, 0.25, *resp.TotalReturn, 1e-9)
	assert.Equal(t, 3, resp.TotalTrades)

	encoded, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"profit_factor":null`)
	assert.Contains(t, string(encoded), `"sharpe_ratio":null`)
	assert.Contains(t, string(encoded), `"total_return":0.25`)
	assert.Contains(t, string(encoded), `"final_equity":125000`)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid request",
			err:  errors.New(errors.ErrCodeInvalidRequest, "bad payload"),
			want: http.StatusBadRequest,
		},
		{
			name: "strategy config",
			err:  errors.New(errors.ErrCodeStrategyConfigError, "bad params"),
			want: http.StatusBadRequest,
		},
		{
			name: "unknown strategy",
			err:  errors.New(errors.ErrCodeStrategyNotFound, "missing"),
			want: http.StatusNotFound,
		},
		{
			name: "unknown batch",
			err:  errors.New(errors.ErrCodeBatchNotFound, "missing"),
			want: http.StatusNotFound,
		},
		{
			name: "missing data file",
			err:  errors.New(errors.ErrCodeNoDataFound, "no rows"),
			want: http.StatusNotFound,
		},
		{
			name: "storage failure",
			err:  errors.New(errors.ErrCodeStoreQueryFailed, "duckdb exploded"),
			want: http.StatusInternalServerError,
		},
		{
			name: "uncoded error",
			err:  errors.New(errors.ErrCodeUnknown, "boom"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusForError(tc.err))
		})
	}
}
