package service

import "errors"

// Sentinel kinds for rejected operator actions.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrSimulationFinished = errors.New("simulation finished")
	ErrNineBoxIncomplete  = errors.New("nine-box placement missing for active employees")
	ErrTrainingCapReached = errors.New("training cap reached")
	ErrInvalidPlacement   = errors.New("invalid nine-box placement")
	ErrInvalidTraining    = errors.New("invalid training kind")
)
