package suggest

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidOutput means the model answered but the answer is not usable: not JSON,
	// not matching the response schema, or breaking a domain rule
	ErrInvalidOutput = goerr.New("invalid model output")

	// ErrRequestFailed means the model could not be reached or returned an error
	ErrRequestFailed = goerr.New("model request failed")
)
