package dns

import "github.com/burrowdns/burrow/internal/helpers"

// BuildErrorResponse constructs a DNS error response packet for a request.
// It preserves the transaction ID and RD flag from the request, sets the QR
// flag, and applies the given response code. The original question section is
// echoed back; no answer records are included.
func BuildErrorResponse(req Packet, rcode RCode) Packet {
	h := Header{
		ID:      req.Header.ID,
		Flags:   ResponseFlags(req.Header.Flags, rcode),
		QDCount: helpers.ClampIntToUint16(len(req.Questions)),
	}
	return Packet{Header: h, Questions: req.Questions}
}

// ResponseFlags constructs a response flags field from the request's flags:
// QR set, RD carried over, everything else cleared, and the new RCODE in the
// low 4 bits.
func ResponseFlags(reqFlags uint16, rcode RCode) uint16 {
	flags := QRFlag
	flags |= reqFlags & RDFlag
	return (flags &^ RCodeMask) | (uint16(rcode) & RCodeMask)
}
