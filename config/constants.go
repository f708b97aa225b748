// Package config collects the protocol-wide constants shared by every
// layer of the prover and verifier, mirroring the fixed parameters of the
// Virgo/Libra construction this system implements.
package config

const (
	// MaxFRIDepth bounds the number of fold-by-two rounds FRI ever runs.
	MaxFRIDepth = 30

	// LDTRepeatNum is the number of independent query repetitions the
	// verifier performs against the FRI oracle (the low-degree test).
	LDTRepeatNum = 33

	// LogSliceNumber / SliceNumber split the witness polynomial into
	// independently-encoded slices so that each slice's coefficient count
	// stays small enough to FFT cheaply.
	LogSliceNumber = 6
	SliceNumber    = 1 << LogSliceNumber

	// RSCodeRate is the log2 blow-up factor of the Reed-Solomon code: a
	// rate of 1/32.
	RSCodeRate = 5

	// MaxBitLength bounds the log2 size of any single circuit layer or
	// witness polynomial this system will process.
	MaxBitLength = 30
)
