package dns

import (
	"encoding/binary"
	"fmt"
)

// Question represents a DNS question section entry (RFC 1035 Section 4.1.2).
//
// Each question specifies what the client is asking for:
//   - Name: The domain name being queried
//   - Type: The record type requested (A, AAAA, MX, etc.)
//   - Class: Usually ClassIN (Internet)
type Question struct {
	Name  Name
	Type  RecordType
	Class RecordClass
}

// Marshal serializes the question to wire format without compression.
// Questions inside a full message are compressed by Packet.Marshal instead.
func (q Question) Marshal() ([]byte, error) {
	return q.append(make([]byte, 0, q.Name.WireLen()+4), nil)
}

// append encodes the question onto out, registering the name in tbl.
func (q Question) append(out []byte, tbl map[string]int) ([]byte, error) {
	out, err := appendName(out, q.Name, tbl)
	if err != nil {
		return nil, err
	}
	var fixed [4]byte
	binary.BigEndian.PutUint16(fixed[0:2], uint16(q.Type))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(q.Class))
	return append(out, fixed[:]...), nil
}

// ParseQuestion parses a question from the message at the given offset.
// It advances *off past the parsed question on success.
func ParseQuestion(msg []byte, off *int) (Question, error) {
	name, err := ParseName(msg, off)
	if err != nil {
		return Question{}, err
	}
	if *off+4 > len(msg) {
		return Question{}, fmt.Errorf("%w: question type and class", ErrIncompleteBuffer)
	}
	q := Question{
		Name:  name,
		Type:  RecordType(binary.BigEndian.Uint16(msg[*off : *off+2])),
		Class: RecordClass(binary.BigEndian.Uint16(msg[*off+2 : *off+4])),
	}
	*off += 4
	return q, nil
}
