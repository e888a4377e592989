package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrConfiguration means a required setting such as the Gemini credential is missing.
	ErrConfiguration = goerr.New("configuration error")

	// ErrGeneration means the generation backend failed, returned nothing or returned a malformed payload.
	ErrGeneration = goerr.New("generation error")

	// ErrValidation means user input was rejected before any state changed.
	ErrValidation = goerr.New("validation error")

	ErrProfileNotFound  = goerr.New("profile not found")
	ErrDuplicateProfile = goerr.New("profile already exists")
)
