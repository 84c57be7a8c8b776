package routingapi

import "google.golang.org/protobuf/encoding/protowire"

// Api is the decoded structured form of a Pbf response. The backend's full
// response schema is externally specified and treated as a black box here;
// Api exposes the top-level fields generically by tag number, enough for
// callers that only need to confirm a structured decode happened and
// inspect specific fields they know the tag numbers for.
type Api struct {
	Fields map[uint32][]byte
}

// Field returns the raw bytes of a top-level field by its protobuf tag
// number, or (nil, false) if the field was absent.
func (a Api) Field(tag uint32) ([]byte, bool) {
	b, ok := a.Fields[tag]
	return b, ok
}

// decodeAPI walks data's top-level protobuf fields without a fixed schema,
// using protowire's tag/varint/bytes framing (the same package Encode
// writes with) to stay consistent with a genuine protobuf wire stream.
func decodeAPI(data []byte) Api {
	fields := make(map[uint32][]byte)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			break
		}
		data = data[n:]

		var value []byte
		var consumed int
		switch typ {
		case protowire.VarintType:
			v, n2 := protowire.ConsumeVarint(data)
			if n2 < 0 {
				return Api{Fields: fields}
			}
			value = protowire.AppendVarint(nil, v)
			consumed = n2
		case protowire.Fixed32Type:
			if len(data) < 4 {
				return Api{Fields: fields}
			}
			value = append([]byte(nil), data[:4]...)
			consumed = 4
		case protowire.Fixed64Type:
			if len(data) < 8 {
				return Api{Fields: fields}
			}
			value = append([]byte(nil), data[:8]...)
			consumed = 8
		case protowire.BytesType:
			b, n2 := protowire.ConsumeBytes(data)
			if n2 < 0 {
				return Api{Fields: fields}
			}
			value = append([]byte(nil), b...)
			consumed = n2
		default:
			return Api{Fields: fields}
		}

		fields[uint32(num)] = value
		data = data[consumed:]
	}

	return Api{Fields: fields}
}
