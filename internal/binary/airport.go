package binary

import (
	"fmt"
	"io"

	"github.com/dyuri/bglconv/internal/codec"
	"github.com/dyuri/bglconv/internal/model"
)

// AirportRecordSize is the fixed part of an airport record read by
// ReadAirport. Nested runway, start and taxi records follow it and are
// covered by the record's declared size.
const AirportRecordSize = 0x2C

// ReadAirport decodes one airport record at the cursor position and
// returns it together with the record size declared in its header
func ReadAirport(c *Cursor) (*model.Airport, uint32, error) {
	if c.Size()-c.Pos() < AirportRecordSize {
		return nil, 0, fmt.Errorf("read airport record at 0x%x: %w", c.Pos(), io.ErrUnexpectedEOF)
	}

	var (
		a       model.Airport
		size    uint32
		rawLon  uint32
		rawLat  uint32
		altMM   int32
		rawICAO uint32
		err     error
	)

	// 0x00: record type, 0x02: record size
	if err = c.Skip(2); err != nil {
		return nil, 0, err
	}
	if size, err = c.U32(); err != nil {
		return nil, 0, err
	}

	// 0x06: runway count
	// 0x07-0x0B: com, start, approach, legacy apron, helipad counts
	if a.RunwayCount, err = c.U8(); err != nil {
		return nil, 0, err
	}
	if err = c.Skip(5); err != nil {
		return nil, 0, err
	}

	// 0x0C: longitude, 0x10: latitude, 0x14: altitude in mm
	if rawLon, err = c.U32(); err != nil {
		return nil, 0, err
	}
	if rawLat, err = c.U32(); err != nil {
		return nil, 0, err
	}
	if altMM, err = c.I32(); err != nil {
		return nil, 0, err
	}

	// 0x18-0x27: tower longitude, latitude, altitude, magnetic variation
	// 0x28: ICAO ident, low 5 bits unrelated
	if err = c.Skip(16); err != nil {
		return nil, 0, err
	}
	if rawICAO, err = c.U32(); err != nil {
		return nil, 0, err
	}

	a.Longitude, a.Latitude = codec.Coordinates(rawLon, rawLat)
	a.Altitude = float64(altMM) / 1000
	a.ICAO = codec.Ident(rawICAO, true)
	return &a, size, nil
}

// DecodeAirports decodes the airport records of one subsection. Records
// are packed back to back; each declared record size is used to reach
// the next one. A record count of zero still yields the record at the
// data offset.
func DecodeAirports(c *Cursor, sub model.Subsection) ([]model.Object, error) {
	count := max(sub.RecordCount, 1)
	objs := make([]model.Object, 0, min(count, 64))

	start := c.Pos()
	for i := uint32(0); i < count; i++ {
		airport, size, err := ReadAirport(c)
		if err != nil {
			return nil, fmt.Errorf("airport %d: %w", i, err)
		}
		objs = append(objs, airport)

		if i+1 == count {
			break
		}
		if size < AirportRecordSize {
			return nil, fmt.Errorf("airport %d at 0x%x declares %d bytes: %w", i, start, size, ErrRecordSize)
		}
		start += int64(size)
		if err := c.Seek(start); err != nil {
			return nil, fmt.Errorf("airport %d: %w", i+1, err)
		}
	}

	return objs, nil
}
