package game

import "errors"

var (
	ErrEmptyPath         = errors.New("waypoint path is empty")
	ErrInvalidTowerKind  = errors.New("invalid tower kind")
	ErrMissingTowerKind  = errors.New("tower kind not configured")
	ErrInvalidTowerStats = errors.New("invalid tower stats")
	ErrInvalidHealth     = errors.New("health must be positive")
	ErrInvalidLifetime   = errors.New("bullet lifetime must be positive")
	ErrInvalidWave       = errors.New("invalid wave")
)
