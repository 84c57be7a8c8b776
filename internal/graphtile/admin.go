package graphtile

import "bytes"

// adminRecord is the fixed 64-byte on-disk admin record: two ISO code
// fields plus two fixed-width name fields, NUL-padded.
//
//	[0:3)   country ISO (e.g. "AD")
//	[3:8)   state ISO (e.g. "AD-08")
//	[8:40)  country name, NUL-padded
//	[40:64) state name, NUL-padded
type adminRecord struct {
	raw [adminRecordSize]byte
}

// AdminInfo is the decoded, user-facing form of an adminRecord.
type AdminInfo struct {
	CountryISO  string
	StateISO    string
	CountryName string
	StateName   string
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func decodeAdmin(r *adminRecord) AdminInfo {
	return AdminInfo{
		CountryISO:  cstr(r.raw[0:3]),
		StateISO:    cstr(r.raw[3:8]),
		CountryName: cstr(r.raw[8:40]),
		StateName:   cstr(r.raw[40:64]),
	}
}

// AdminInfo returns the decoded admin record at index, or (zero, false)
// when index is out of range. Index 0 is conventionally the empty
// "None"/"None" record.
func (t *GraphTile) AdminInfo(index int) (AdminInfo, bool) {
	if index < 0 || index >= len(t.admin) {
		return AdminInfo{}, false
	}
	return decodeAdmin(&t.admin[index]), true
}

// EncodeAdminInfo builds the raw bytes for one admin record.
func EncodeAdminInfo(countryISO, stateISO, countryName, stateName string) [adminRecordSize]byte {
	var out [adminRecordSize]byte
	copy(out[0:3], countryISO)
	copy(out[3:8], stateISO)
	copy(out[8:40], countryName)
	copy(out[40:64], stateName)
	return out
}
