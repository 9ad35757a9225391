package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation / configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidCapital       ErrorCode = 102
	ErrCodeInvalidCommission    ErrorCode = 103
	ErrCodeInvalidSlippage      ErrorCode = 104
	ErrCodeInvalidPositionSize  ErrorCode = 105
	ErrCodeInvalidStopLoss      ErrorCode = 106
	ErrCodeInvalidTakeProfit    ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidRunWindow     ErrorCode = 110
	ErrCodeInvalidType          ErrorCode = 111

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeInsufficientData      ErrorCode = 203
	ErrCodeUnorderedSeries       ErrorCode = 204
	ErrCodeNoDataFound           ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300
	ErrCodeIndicatorPeriod      ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyAlreadyExists ErrorCode = 401
	ErrCodeStrategyConfigError   ErrorCode = 402
	ErrCodeStrategySignalError   ErrorCode = 403
	ErrCodeVersionMismatch       ErrorCode = 404

	// Execution errors (500-599)
	ErrCodeExecutionFailed     ErrorCode = 500
	ErrCodePositionAlreadyOpen ErrorCode = 501
	ErrCodePositionNotFound    ErrorCode = 502
	ErrCodeInsolventFill       ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError  ErrorCode = 600
	ErrCodeBacktestInitFailed   ErrorCode = 601
	ErrCodeBacktestAborted      ErrorCode = 602
	ErrCodeBacktestNoStrategy   ErrorCode = 603
	ErrCodeBacktestNoData       ErrorCode = 604
	ErrCodeBacktestNoResultsDir ErrorCode = 605

	// Storage errors (700-799)
	ErrCodeStoreInitFailed   ErrorCode = 700
	ErrCodeStoreWriteFailed  ErrorCode = 701
	ErrCodeStoreQueryFailed  ErrorCode = 702
	ErrCodeReportWriteFailed ErrorCode = 703

	// Market data errors (800-899)
	ErrCodeMarketDataFetchFailed ErrorCode = 800
	ErrCodeMarketDataWriteFailed ErrorCode = 801
	ErrCodeMarketDataParseFailed ErrorCode = 802
	ErrCodeInvalidTimespan       ErrorCode = 803
	ErrCodeInvalidProvider       ErrorCode = 804

	// API errors (900-999)
	ErrCodeInvalidRequest ErrorCode = 900
	ErrCodeBatchNotFound  ErrorCode = 901
	ErrCodeRunNotFound    ErrorCode = 902
)
