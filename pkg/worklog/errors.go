package worklog

import "errors"

var (
	ErrNoteNotFound     = errors.New("work note not found")
	ErrInvalidTimeframe = errors.New("timeframe must be weekly, monthly or yearly")
)
