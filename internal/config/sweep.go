package config

import (
	"os"
	"strconv"
	"time"
)

// SweepConfig controls the reconciliation sweep over pending jobs whose
// callback never arrived.
type SweepConfig struct {
	Interval time.Duration
	Deadline time.Duration
}

func NewSweepConfig() *SweepConfig {
	intervalSec := os.Getenv("SWEEP_INTERVAL_SEC")
	deadlineSec := os.Getenv("SWEEP_DEADLINE_SEC")
	varInt, err := strconv.Atoi(intervalSec)
	if err != nil {
		varInt = 60
	}
	varInt2, err := strconv.Atoi(deadlineSec)
	if err != nil {
		varInt2 = 1800
	}
	return &SweepConfig{
		Interval: time.Duration(varInt) * time.Second,
		Deadline: time.Duration(varInt2) * time.Second,
	}
}
