package extraction

import "errors"

var (
	// ErrExtractionFormat means the analysis payload was empty or matched
	// neither known format. No draft is produced; the caller should offer
	// retry or manual entry, never persist an empty record.
	ErrExtractionFormat = errors.New("unrecognized extraction payload format")

	// ErrSessionBusy means an extraction attempt is already in flight on
	// this session.
	ErrSessionBusy = errors.New("extraction session busy")

	// ErrInvalidState means the requested operation is not valid in the
	// session's current state.
	ErrInvalidState = errors.New("invalid extraction session state")
)
