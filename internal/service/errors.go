package service

import "errors"

var (
	// ErrNotLoaded is returned when a session is used before Load.
	ErrNotLoaded = errors.New("board not loaded")

	// ErrUnknownLane is returned when a lane id is not on the board.
	ErrUnknownLane = errors.New("unknown lane")

	// ErrTitleRequired is returned when a tactic is created without a title.
	ErrTitleRequired = errors.New("tactic title is required")
)
