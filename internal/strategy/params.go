package strategy

import (
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"github.com/overline-lab/backstrat/pkg/errors"
)

var validate = validator.New()

// DecodeParams parses a YAML parameter document over the given defaults
// and validates the result. Keys absent from the document keep their
// default values.
func DecodeParams[T any](config string, defaults T) (T, error) {
	params := defaults
	if config != "" {
		if err := yaml.Unmarshal([]byte(config), &params); err != nil {
			return defaults, errors.Wrap(errors.ErrCodeStrategyConfigError, "failed to parse strategy parameters", err)
		}
	}
	if err := validate.Struct(params); err != nil {
		return defaults, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid strategy parameters", err)
	}
	return params, nil
}
