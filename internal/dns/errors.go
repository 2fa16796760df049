// Package dns implements the RFC 1035 wire format: header, questions,
// resource records, and domain-name compression.
//
// Standards Compliance:
//
//   - RFC 1035: Domain Names - Implementation and Specification (core DNS protocol)
//   - RFC 1034: Domain Names - Concepts and Facilities (DNS concepts)
//   - RFC 3596: DNS Extensions to Support IPv6 (AAAA records)
//   - RFC 4343: Domain Name System (DNS) Case Insensitivity Clarification
//
// Type-Oriented Design:
//
// Each record type is represented by an explicit type (IPRecord, NameRecord,
// MXRecord, SOARecord, TXTRecord, OpaqueRecord) behind the Record interface
// rather than a generic struct. Decoders and encoders dispatch exhaustively on
// the record type; anything outside the modeled set is preserved verbatim as
// an OpaqueRecord.
//
// Error Handling:
//
// Decoders return one of the sentinel errors below, wrapped with context using
// fmt.Errorf("...: %w", err), so callers can classify failures with errors.Is.
// No decoder ever panics on malformed input; network bytes are attacker
// controlled and must be tolerated.
package dns

import "errors"

var (
	// ErrIncompleteBuffer indicates fewer bytes were available than the
	// current field requires.
	ErrIncompleteBuffer = errors.New("dns: incomplete buffer")

	// ErrInvalidLabel indicates a malformed domain-name length byte
	// (reserved prefix 01xxxxxx or 10xxxxxx).
	ErrInvalidLabel = errors.New("dns: invalid label")

	// ErrPointerOutOfBounds indicates a compression pointer that targets a
	// non-earlier offset, or a pointer chain exceeding the hop limit.
	ErrPointerOutOfBounds = errors.New("dns: compression pointer out of bounds")

	// ErrNameTooLong indicates a domain name whose wire encoding exceeds
	// 255 bytes (RFC 1035 Section 3.1).
	ErrNameTooLong = errors.New("dns: name too long")

	// ErrInvalidName indicates a name that cannot be encoded: an empty
	// label or a label longer than 63 bytes.
	ErrInvalidName = errors.New("dns: invalid name")

	// ErrRdLengthMismatch indicates that the declared RDLENGTH disagrees
	// with the bytes the typed RDATA decoder actually consumed.
	ErrRdLengthMismatch = errors.New("dns: rdlength mismatch")

	// ErrInvalidRdLength indicates typed RDATA whose raw length is
	// structurally impossible, e.g. a 3-byte A record.
	ErrInvalidRdLength = errors.New("dns: invalid rdlength")

	// ErrNegativeTTL indicates a resource record TTL with the sign bit set.
	// The TTL is a signed 32-bit field and negative values are invalid.
	ErrNegativeTTL = errors.New("dns: negative ttl")

	// ErrCountMismatch indicates that the header's section counts disagree
	// with the decodable content of the message.
	ErrCountMismatch = errors.New("dns: section count mismatch")
)
