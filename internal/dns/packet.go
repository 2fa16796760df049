package dns

import (
	"fmt"

	"github.com/burrowdns/burrow/internal/helpers"
)

// Limits for incoming DNS messages to prevent resource exhaustion from
// crafted headers whose counts far exceed what the payload can hold.
const (
	MaxIncomingMessageSize = 4096 // Maximum size of an incoming DNS message
	MaxQuestions           = 4    // Allocation cap for the question section
	MaxRRPerSection        = 100  // Allocation cap per resource record section
)

// Packet represents a complete DNS message (RFC 1035 Section 4.1).
//
// DNS messages are composed of five sections:
//   - Header: Transaction ID, flags, section counts
//   - Questions: What is being asked
//   - Answers: Resource records answering the question
//   - Authorities: Name servers authoritative for the domain
//   - Additionals: Extra records for optimization (e.g., A records for NS)
//
// After ParsePacket the header counts always equal the section lengths, and
// Marshal recomputes them from the sections, so a mismatched caller-set count
// never reaches the wire.
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes the packet to DNS wire format (big-endian).
//
// One compression table is built for the whole message and shared across all
// four sections, so an answer's owner name can point back at the matching
// question name. The table lives only for the duration of this call.
func (p Packet) Marshal() ([]byte, error) {
	h := Header{
		ID:      p.Header.ID,
		Flags:   p.Header.Flags,
		QDCount: helpers.ClampIntToUint16(len(p.Questions)),
		ANCount: helpers.ClampIntToUint16(len(p.Answers)),
		NSCount: helpers.ClampIntToUint16(len(p.Authorities)),
		ARCount: helpers.ClampIntToUint16(len(p.Additionals)),
	}

	// Estimate capacity: header(12) + question(~50) + records(~100 each)
	estimatedSize := HeaderSize + len(p.Questions)*50 +
		(len(p.Answers)+len(p.Authorities)+len(p.Additionals))*100
	out := make([]byte, 0, estimatedSize)
	out = append(out, h.Marshal()...)

	tbl := make(map[string]int)
	var err error
	for _, q := range p.Questions {
		if out, err = q.append(out, tbl); err != nil {
			return nil, err
		}
	}
	for _, section := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		for _, r := range section {
			if out, err = appendRecord(out, r, tbl); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ParsePacket decodes a full DNS message: header, then exactly the declared
// number of questions, answers, authorities, and additionals, in that order.
//
// Any failure in any sub-item aborts the whole decode with that failure;
// partial packets are never returned. Bytes remaining after the last declared
// record mean the counts disagree with the content.
func ParsePacket(msg []byte) (Packet, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Packet{}, err
	}

	p := Packet{Header: h}

	// Cap initial allocations: a 12-byte datagram can claim 65535 records.
	p.Questions = make([]Question, 0, min(int(h.QDCount), MaxQuestions))
	for i := 0; i < int(h.QDCount); i++ {
		q, err := ParseQuestion(msg, &off)
		if err != nil {
			return Packet{}, fmt.Errorf("question %d of %d: %w", i+1, h.QDCount, err)
		}
		p.Questions = append(p.Questions, q)
	}
	if p.Answers, err = parseSection(msg, &off, "answer", int(h.ANCount)); err != nil {
		return Packet{}, err
	}
	if p.Authorities, err = parseSection(msg, &off, "authority", int(h.NSCount)); err != nil {
		return Packet{}, err
	}
	if p.Additionals, err = parseSection(msg, &off, "additional", int(h.ARCount)); err != nil {
		return Packet{}, err
	}
	if off != len(msg) {
		return Packet{}, fmt.Errorf("%w: %d bytes after last declared record", ErrCountMismatch, len(msg)-off)
	}
	return p, nil
}

// parseSection decodes count resource records for one named section.
func parseSection(msg []byte, off *int, section string, count int) ([]Record, error) {
	records := make([]Record, 0, min(count, MaxRRPerSection))
	for i := 0; i < count; i++ {
		r, err := ParseRecord(msg, off)
		if err != nil {
			return nil, fmt.Errorf("%s record %d of %d: %w", section, i+1, count, err)
		}
		records = append(records, r)
	}
	return records, nil
}
