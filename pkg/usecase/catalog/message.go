package catalog

import (
	"errors"

	"github.com/m-mizutani/philosophia/pkg/model"
)

// Message converts an error into the banner shown to the reader
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrConfiguration):
		return "The Gemini backend is not configured. Set GEMINI_API_KEY and try again."
	case errors.Is(err, model.ErrGeneration):
		return "Could not summon this philosopher from Gemini. Check the API key or try again later."
	case errors.Is(err, model.ErrValidation):
		return "Your comment was not accepted (" + err.Error() + ")."
	case errors.Is(err, model.ErrProfileNotFound):
		return "That philosopher is not in the catalog."
	default:
		return "Something went wrong: " + err.Error()
	}
}
