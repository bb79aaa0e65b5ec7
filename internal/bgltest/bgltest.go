// Package bgltest builds synthetic BGL containers for tests.
package bgltest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	Magic        = 0x19920201
	headerSize   = 0x38
	sectionEntry = 20
	airportSize  = 0x2C
)

var le = binary.LittleEndian

// Airport describes one airport record
type Airport struct {
	Lon, Lat uint32
	AltMM    int32
	Runways  uint8
	Ident    uint32
	Size     uint32 // Declared record size, 0x2C when 0
}

// LTFM is Istanbul airport as stored in a real scenery file
var LTFM = Airport{
	Lon:     466970081,
	Lat:     145327076,
	AltMM:   99000,
	Runways: 5,
	Ident:   0x27e6c41,
}

// Bytes encodes the record. Space past the fixed part is zero filled.
func (a Airport) Bytes() []byte {
	size := a.Size
	if size == 0 {
		size = airportSize
	}
	buf := make([]byte, max(int(size), airportSize))
	le.PutUint16(buf[0x00:], 0x56)
	le.PutUint32(buf[0x02:], size)
	buf[0x06] = a.Runways
	for i := 0x07; i < 0x0C; i++ {
		buf[i] = 0xEE
	}
	le.PutUint32(buf[0x0C:], a.Lon)
	le.PutUint32(buf[0x10:], a.Lat)
	le.PutUint32(buf[0x14:], uint32(a.AltMM))
	for i := 0x18; i < 0x28; i++ {
		buf[i] = 0xAB
	}
	le.PutUint32(buf[0x28:], a.Ident)
	return buf
}

// Subsection holds the records of one subsection table entry
type Subsection struct {
	Records [][]byte
}

// Section is one section directory entry with its subsections
type Section struct {
	Tag       uint32
	StrideRaw uint32
	Subs      []Subsection
}

// AirportSection builds an airport section with one subsection per
// airport list
func AirportSection(strideRaw uint32, subs ...[]Airport) Section {
	sec := Section{Tag: 0x3, StrideRaw: strideRaw}
	for _, airports := range subs {
		var sub Subsection
		for _, a := range airports {
			sub.Records = append(sub.Records, a.Bytes())
		}
		sec.Subs = append(sec.Subs, sub)
	}
	return sec
}

// Build lays out a container as header, section directory, then for
// each section its subsection table followed by the subsection data.
// Subsection entries are 20 bytes when bit 16 of StrideRaw is set and
// 16 bytes otherwise.
func Build(magic uint32, sections ...Section) []byte {
	buf := make([]byte, headerSize+sectionEntry*len(sections))
	le.PutUint32(buf[0x00:], magic)
	le.PutUint32(buf[0x04:], headerSize)
	le.PutUint32(buf[0x10:], 0x08051803)
	le.PutUint32(buf[0x14:], uint32(len(sections)))

	for i, sec := range sections {
		stride := 16
		if sec.StrideRaw&0x10000 != 0 {
			stride = 20
		}
		tableOff := len(buf)
		buf = append(buf, make([]byte, stride*len(sec.Subs))...)

		total := 0
		for j, sub := range sec.Subs {
			dataOff := len(buf)
			data := bytes.Join(sub.Records, nil)
			buf = append(buf, data...)

			entry := buf[tableOff+j*stride:]
			le.PutUint32(entry[0:], 0xFFFFFFFF)
			le.PutUint32(entry[4:], uint32(len(sub.Records)))
			le.PutUint32(entry[8:], uint32(dataOff))
			le.PutUint32(entry[12:], uint32(len(data)))
			total += len(data)
		}

		dir := buf[headerSize+i*sectionEntry:]
		le.PutUint32(dir[0:], sec.Tag)
		le.PutUint32(dir[4:], sec.StrideRaw)
		le.PutUint32(dir[8:], uint32(len(sec.Subs)))
		le.PutUint32(dir[12:], uint32(tableOff))
		le.PutUint32(dir[16:], uint32(total))
	}

	return buf
}

// TableOffset returns the subsection table offset of section i
func TableOffset(buf []byte, i int) uint32 {
	return le.Uint32(buf[headerSize+i*sectionEntry+12:])
}

// WriteFile writes data to dir/name, creating parent directories
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
