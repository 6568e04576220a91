package model

import "errors"

var (
	// ErrRetrieval marks a failed or malformed encyclopedia call.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrSynthesis marks a failed verdict tool call or an invalid payload.
	ErrSynthesis = errors.New("synthesis failed")
	// ErrLocalization never leaves the localizer; it is recorded on the translation result.
	ErrLocalization = errors.New("localization failed")
	// ErrMapping marks a citation index outside the evidence list.
	ErrMapping = errors.New("citation mapping failed")
)
