package sentiment

import "errors"

var (
	ErrUnknownModel  = errors.New("unknown classifier model")
	ErrMissingAPIKey = errors.New("openai api key not configured")
	ErrEmptyResponse = errors.New("empty model response")
	ErrInvalidLabel  = errors.New("model returned invalid label")
)
