package dns

// OpaqueRecord represents a record of a type this package does not model.
// Its RDATA is exactly the declared rdlength bytes, carried verbatim so the
// record survives a decode/encode round trip unchanged.
type OpaqueRecord struct {
	H    RRHeader
	T    RecordType
	Data []byte
}

// NewOpaqueRecord creates a new opaque record for an unmodeled type.
func NewOpaqueRecord(h RRHeader, rt RecordType, data []byte) *OpaqueRecord {
	return &OpaqueRecord{H: h, T: rt, Data: data}
}

// Type returns the record type.
func (r *OpaqueRecord) Type() RecordType { return r.T }

// Header returns the record header.
func (r *OpaqueRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *OpaqueRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData returns the raw bytes unchanged.
func (r *OpaqueRecord) MarshalRData() ([]byte, error) {
	return r.Data, nil
}

// ParseOpaqueRData copies exactly rdlen raw bytes with no interpretation.
func ParseOpaqueRData(msg []byte, off *int, rdlen int, rt RecordType) (*OpaqueRecord, error) {
	b := make([]byte, rdlen)
	copy(b, msg[*off:*off+rdlen])
	*off += rdlen
	return &OpaqueRecord{T: rt, Data: b}, nil
}
