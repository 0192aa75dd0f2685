// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import "fmt"

// ValidationError is returned when a value cannot be coerced into the kind
// required by an attribute's schema entry. Decoders catch it per-frame and
// continue scanning; callers setting an attribute directly see it raised.
type ValidationError struct {
	Field string
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tag: invalid value for %q: %v", e.Field, e.Cause)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func newValidationError(field string, cause error) error {
	return &ValidationError{Field: field, Cause: cause}
}

// DecodeError reports a structural mismatch found while walking a
// container (IFF chunk, MPEG-4 atom, ID3v2 frame, FLAC/OGG framing). Some
// DecodeErrors are swallowed by the layer above (an unrecognised subframe
// is skipped); a DecodeError from a format's entry point (FLAC, MPEG-4,
// OGG, IFF) is returned to the caller of Open unchanged, not converted to
// InvalidMedia.
type DecodeError struct {
	Format string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tag: %s: %v", e.Format, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func newDecodeError(format string, cause error) error {
	return &DecodeError{Format: format, Cause: cause}
}

// EncodeError is returned when the MP3 writer cannot satisfy a write
// request: the source is not a bare MP3 file, an in-place save has no
// existing ID3v2 region or does not fit within the existing tag span, the
// source is not writable, or a dump finds no MP3 payload to anchor the
// write to. A requested ID3v2 version other than 2, 3 or 4 is not an
// error: Save and Dump fall back to the default version instead.
type EncodeError struct {
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("tag: cannot encode: %s", e.Reason)
}

func newEncodeError(reason string) error {
	return &EncodeError{Reason: reason}
}

// InvalidMedia is returned by the top-level dispatcher when every decoder
// declined to accept the source.
type InvalidMedia struct {
	Cause error
}

func (e *InvalidMedia) Error() string {
	if e.Cause == nil {
		return "tag: no tags found"
	}
	return fmt.Sprintf("tag: no tags found: %v", e.Cause)
}

func (e *InvalidMedia) Unwrap() error { return e.Cause }

// ErrNoTagsFound is returned by tagopen when no decoder accepts the
// source and there is no more specific underlying cause to report.
var ErrNoTagsFound = &InvalidMedia{}
