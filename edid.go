package main

import (
	"bytes"
	"strings"
)

const edidBlockLen = 128

var edidHeader = []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// edidInfo is the part of an EDID block used to tell monitors apart.
type edidInfo struct {
	Manufacturer string // PNP id, e.g. "WAC"
	Model        string // monitor name descriptor, may be empty
}

// parseEDID decodes the base block. ok is false for anything that is not
// an EDID base block.
func parseEDID(b []byte) (info edidInfo, ok bool) {
	if len(b) < edidBlockLen || !bytes.Equal(b[:8], edidHeader) {
		return info, false
	}
	v := uint16(b[8])<<8 | uint16(b[9])
	letters := []byte{
		byte(v>>10&0x1f) + '@',
		byte(v>>5&0x1f) + '@',
		byte(v&0x1f) + '@',
	}
	for _, l := range letters {
		if l < 'A' || l > 'Z' {
			return info, false
		}
	}
	info.Manufacturer = string(letters)

	// four 18 byte descriptors, 0xfc is the monitor name
	for off := 54; off+18 <= 126; off += 18 {
		d := b[off : off+18]
		if d[0] != 0 || d[1] != 0 || d[3] != 0xfc {
			continue
		}
		name := d[5:18]
		if i := bytes.IndexByte(name, '\n'); i >= 0 {
			name = name[:i]
		}
		info.Model = strings.TrimSpace(string(name))
		break
	}
	return info, true
}
