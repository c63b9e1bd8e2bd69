package cache

import "fmt"

// SizeError reports a non-positive capacity passed to a constructor.
// Capacity zero is rejected, never silently clamped.
type SizeError struct{ Size int }

func (e *SizeError) Error() string { return fmt.Sprintf("invalid cache size %d", e.Size) }

// RecentRatioError reports a recent ratio outside [0.0, 1.0].
type RecentRatioError struct{ Ratio float64 }

func (e *RecentRatioError) Error() string { return fmt.Sprintf("invalid recent ratio %v", e.Ratio) }

// GhostRatioError reports a ghost ratio outside [0.0, 1.0].
type GhostRatioError struct{ Ratio float64 }

func (e *GhostRatioError) Error() string { return fmt.Sprintf("invalid ghost ratio %v", e.Ratio) }
