package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeStrategyNotFound, "unknown strategy: %s", "macd_standard")
	suite.NotNil(err)
	suite.Equal(ErrCodeStrategyNotFound, err.Code)
	suite.Equal("unknown strategy: macd_standard", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("data not found", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeDataNotFound, cause, "no bars for symbol: %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeDataNotFound, err.Code)
	suite.Equal("no bars for symbol: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal("[200] data not found: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidStopLoss, "stop loss must be between 0 and 1")
	suite.Equal(ErrCodeInvalidStopLoss, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeDataNotFound, "data not found")
	err := Wrap(ErrCodeBacktestInitFailed, "backtest init failed", cause)
	// GetCode should return the outermost error's code
	suite.Equal(ErrCodeBacktestInitFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromStandardError() {
	err := errors.New("standard error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.True(HasCode(err, ErrCodeInvalidParameter))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestIsError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeInvalidParameter, coded.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	// Verify the category anchors keep their expected values
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeIndicatorCalculation)
	suite.Equal(ErrorCode(400), ErrCodeStrategyNotFound)
	suite.Equal(ErrorCode(500), ErrCodeExecutionFailed)
	suite.Equal(ErrorCode(600), ErrCodeBacktestConfigError)
	suite.Equal(ErrorCode(700), ErrCodeStoreInitFailed)
	suite.Equal(ErrorCode(800), ErrCodeMarketDataFetchFailed)
	suite.Equal(ErrorCode(900), ErrCodeInvalidRequest)
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := &InsufficientDataError{
		Required: 60,
		Actual:   42,
		Symbol:   "AAPL",
		Message:  "insufficient history for strategy",
	}
	suite.Equal("insufficient history for strategy", err.Error())
	suite.Equal(60, err.Required)
	suite.Equal(42, err.Actual)
	suite.Equal("AAPL", err.Symbol)
}

func (suite *ErrorTestSuite) TestNewInsufficientDataError() {
	err := NewInsufficientDataError(50, 30, "SPY", "insufficient data for backtest")
	suite.NotNil(err)
	suite.Equal(50, err.Required)
	suite.Equal(30, err.Actual)
	suite.Equal("SPY", err.Symbol)
	suite.Equal("insufficient data for backtest", err.Message)
	suite.Equal("insufficient data for backtest", err.Error())
}

func (suite *ErrorTestSuite) TestNewInsufficientDataErrorf() {
	err := NewInsufficientDataErrorf(60, 12, "AAPL", "strategy %s requires %d bars, got %d", "golden_cross", 60, 12)
	suite.NotNil(err)
	suite.Equal(60, err.Required)
	suite.Equal(12, err.Actual)
	suite.Equal("AAPL", err.Symbol)
	suite.Equal("strategy golden_cross requires 60 bars, got 12", err.Message)
}

func (suite *ErrorTestSuite) TestIsInsufficientDataError() {
	// Test with InsufficientDataError
	insufficientErr := NewInsufficientDataError(50, 10, "SPY", "insufficient data")
	suite.True(IsInsufficientDataError(insufficientErr))

	// Test with standard error
	stdErr := errors.New("standard error")
	suite.False(IsInsufficientDataError(stdErr))

	// Test with *Error type
	coded := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.False(IsInsufficientDataError(coded))

	// Test with nil
	suite.False(IsInsufficientDataError(nil))
}

func (suite *ErrorTestSuite) TestIsInsufficientDataErrorWrapped() {
	cause := NewInsufficientDataError(200, 150, "QQQ", "insufficient history")
	err := Wrap(ErrCodeBacktestInitFailed, "setup failed", cause)
	suite.True(IsInsufficientDataError(err))
}
