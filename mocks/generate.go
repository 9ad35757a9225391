package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/overline-lab/backstrat/internal/datasource DataSource
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/overline-lab/backstrat/internal/strategy Strategy
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/overline-lab/backstrat/pkg/marketdata/provider Provider
