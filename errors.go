package bmpzc

import "errors"

// Sentinel errors for the conditions the pipeline driver can report.
// Header-stage failures are non-fatal: the input buffer is left
// untouched and the caller may treat them as a warning rather than abort
// a larger batch job.
var (
	// ErrInputTooSmall is returned when a buffer is shorter than a BMP
	// header (54 bytes).
	ErrInputTooSmall = errors.New("bmpzc: input shorter than a BMP header")

	// ErrPixelRegionTooSmall is returned when the pixel region after a
	// validated header is shorter than the header declares. Header
	// validation already rejects a buffer whose length differs from its
	// declared file size, so a truncated buffer is normally reported as a
	// *bmpheader.ValidationError instead.
	ErrPixelRegionTooSmall = errors.New("bmpzc: buffer shorter than its declared pixel region")
)
