package pkg

import "errors"

var (
	// validation, reported before any request is sent
	ErrNoPositions      = errors.New("no payload positions defined")
	ErrNoPayloads       = errors.New("no non-blank payloads")
	ErrPositionMismatch = errors.New("marker count does not match position count")

	ErrEmptySelection   = errors.New("selection is empty")
	ErrInvalidSelection = errors.New("selection out of range or contains marker delimiter")
	ErrMarkerNotFound   = errors.New("marker not found")
	ErrRawRequest       = errors.New("invalid raw request")
	ErrUnknownMode      = errors.New("unknown attack mode")
	ErrUnknownField     = errors.New("unknown template field")
	ErrNoDispatcher     = errors.New("no dispatcher")
	ErrBaselineFailed   = errors.New("baseline request failed")

	// result reasons
	ErrRequestFailed = errors.New("request failed")
	ErrNotMatched    = errors.New("not matched")
	ErrCustomFilter  = errors.New("custom filtered")
)
