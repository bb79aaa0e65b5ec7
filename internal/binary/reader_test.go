package binary

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/dyuri/bglconv/internal/bgltest"
	"github.com/dyuri/bglconv/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	le   = binary.LittleEndian
	ltfm = bgltest.LTFM
)

func parse(t *testing.T, data []byte, opts Options) (*model.BGLFile, error) {
	t.Helper()
	return NewReader(bytes.NewReader(data), int64(len(data)), opts).Parse()
}

func TestSubsectionStride(t *testing.T) {
	tests := []struct {
		raw  uint32
		want uint32
	}{
		{0x00000000, 16},
		{0x00010000, 20}, // bit 16 set
		{0x00040000, 16}, // bit 18 set, forced anyway
		{0x00050000, 20},
		{0x0000FFFF, 16}, // low bits ignored
		{0xFFFEFFFF, 16}, // everything except bit 16
		{0xFFFFFFFF, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SubsectionStride(tt.raw), "SubsectionStride(0x%08x)", tt.raw)
	}
}

// TestReadHeader tests basic header parsing
func TestReadHeader(t *testing.T) {
	buf := bgltest.Build(Magic)

	reader := NewReader(bytes.NewReader(buf), int64(len(buf)), DefaultOptions())
	c := NewCursor(bytes.NewReader(buf), int64(len(buf)))
	header, err := reader.ReadHeader(c)
	require.NoError(t, err)

	assert.Equal(t, uint32(Magic), header.Magic)
	assert.Equal(t, uint32(HeaderSize), header.HeaderSize)
	assert.Equal(t, uint32(0), header.SectionCount)
	assert.Equal(t, int64(HeaderSize), c.Pos())
}

func TestReadHeaderMagic(t *testing.T) {
	buf := bgltest.Build(0xCAFEBABE)

	_, err := parse(t, buf, DefaultOptions())
	require.ErrorIs(t, err, ErrBadMagic)

	bgl, err := parse(t, buf, Options{VerifyMagic: false})
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), bgl.Header.Magic)
	assert.Empty(t, bgl.Objects)
}

func TestReadHeaderTruncated(t *testing.T) {
	buf := bgltest.Build(Magic)

	for _, n := range []int{0, 4, 20, HeaderSize - 1} {
		bgl, err := parse(t, buf[:n], DefaultOptions())
		require.ErrorIs(t, err, io.ErrUnexpectedEOF, "truncated to %d bytes", n)
		assert.Nil(t, bgl)
	}
}

// TestReadSectionDirectory tests section directory parsing
func TestReadSectionDirectory(t *testing.T) {
	buf := bgltest.Build(Magic,
		bgltest.AirportSection(0x10000, []bgltest.Airport{ltfm}),
		bgltest.Section{Tag: 0x27},
	)

	bgl, err := NewReader(bytes.NewReader(buf), int64(len(buf)), DefaultOptions()).ReadLayout()
	require.NoError(t, err)
	require.Len(t, bgl.Sections, 2)
	assert.Empty(t, bgl.Objects)

	sec := bgl.Sections[0]
	assert.Equal(t, model.SectionAirport, sec.Kind)
	assert.Equal(t, uint32(0x3), sec.Tag)
	assert.Equal(t, uint32(0x10000), sec.StrideRaw)
	assert.Equal(t, uint32(20), sec.Stride)
	assert.Equal(t, uint32(1), sec.SubsectionCount)
	assert.Equal(t, uint32(HeaderSize+2*SectionEntrySize), sec.TableOffset)
	assert.Equal(t, uint32(AirportRecordSize), sec.TotalSize)
	require.Len(t, sec.Subsections, 1)
	assert.Equal(t, uint32(1), sec.Subsections[0].RecordCount)
	assert.Equal(t, sec.TableOffset+20, sec.Subsections[0].DataOffset)
	assert.Equal(t, uint32(AirportRecordSize), sec.Subsections[0].DataSize)
	assert.Equal(t, uint16(0x56), sec.Subsections[0].RecordTag)
	assert.Equal(t, model.DataAirportMsfs, sec.Subsections[0].RecordKind)

	assert.Equal(t, model.SectionNameList, bgl.Sections[1].Kind)
	assert.Equal(t, uint32(16), bgl.Sections[1].Stride)
	assert.Empty(t, bgl.Sections[1].Subsections)
}

func TestReadSectionDirectoryTruncated(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.Section{Tag: 0x27})
	le.PutUint32(buf[0x14:], 1000)

	_, err := parse(t, buf, DefaultOptions())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestParseAirport(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bgl.Objects, 1)

	airport, ok := bgl.Objects[0].(*model.Airport)
	require.True(t, ok)
	assert.Equal(t, "LTFM", airport.ICAO)
	assert.Equal(t, 28.751893490552902, airport.Longitude)
	assert.Equal(t, 41.275300830602646, airport.Latitude)
	assert.Equal(t, 99.0, airport.Altitude)
	assert.Equal(t, uint8(5), airport.RunwayCount)
}

func TestParseAirportNegativeAltitude(t *testing.T) {
	a := ltfm
	a.AltMM = -1234567
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{a}))

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bgl.Airports(), 1)
	assert.Equal(t, -1234.567, bgl.Airports()[0].Altitude)
}

func TestParseMultipleRecords(t *testing.T) {
	first := ltfm
	first.Size = 100 // nested records follow the fixed part
	second := bgltest.Airport{Lon: 3 << 27, Lat: 1 << 28, Ident: 0, Runways: 1}

	buf := bgltest.Build(Magic, bgltest.AirportSection(0x10000,
		[]bgltest.Airport{first, second},
		[]bgltest.Airport{ltfm},
	))

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)

	airports := bgl.Airports()
	require.Len(t, airports, 3)
	assert.Equal(t, "LTFM", airports[0].ICAO)
	assert.Equal(t, " ", airports[1].ICAO)
	assert.Equal(t, 0.0, airports[1].Longitude)
	assert.Equal(t, 0.0, airports[1].Latitude)
	assert.Equal(t, uint8(1), airports[1].RunwayCount)
	assert.Equal(t, "LTFM", airports[2].ICAO)
}

func TestParseZeroRecordCount(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))
	tableOff := bgltest.TableOffset(buf, 0)
	le.PutUint32(buf[tableOff+4:], 0)

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bgl.Objects, 1)
	assert.Equal(t, uint32(0), bgl.Sections[0].Subsections[0].RecordCount)
	assert.Equal(t, "LTFM", bgl.Airports()[0].ICAO)
}

func TestParseRecordSizeTooSmall(t *testing.T) {
	first := ltfm
	first.Size = 8
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{first, ltfm}))

	bgl, err := parse(t, buf, DefaultOptions())
	require.ErrorIs(t, err, ErrRecordSize)
	assert.Nil(t, bgl)
}

func TestParseUnknownSection(t *testing.T) {
	sec := bgltest.AirportSection(0, []bgltest.Airport{ltfm})
	sec.Tag = 0xDEAD
	buf := bgltest.Build(Magic, sec)

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, bgl.Objects)
	assert.Equal(t, model.SectionUndefined, bgl.Sections[0].Kind)
}

func TestParseSkipsKnownSections(t *testing.T) {
	ndb := bgltest.AirportSection(0, []bgltest.Airport{ltfm})
	ndb.Tag = 0x17

	buf := bgltest.Build(Magic, ndb, bgltest.AirportSection(0, []bgltest.Airport{ltfm}), ndb)

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bgl.Objects, 1)
	assert.Equal(t, model.SectionNdb, bgl.Sections[0].Kind)
}

func TestParseDataPastEnd(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))
	tableOff := bgltest.TableOffset(buf, 0)
	le.PutUint32(buf[tableOff+8:], uint32(len(buf)+100))

	bgl, err := parse(t, buf, DefaultOptions())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, bgl)
}

func TestParseUndecodedDataPastEnd(t *testing.T) {
	sec := bgltest.AirportSection(0, []bgltest.Airport{ltfm})
	sec.Tag = 0xDEAD
	buf := bgltest.Build(Magic, sec, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))
	tableOff := bgltest.TableOffset(buf, 0)
	le.PutUint32(buf[tableOff+8:], 0xFFFFFF00)

	bgl, err := parse(t, buf, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, bgl.Objects, 1)

	sub := bgl.Sections[0].Subsections[0]
	assert.Equal(t, uint32(0xFFFFFF00), sub.DataOffset)
	assert.Equal(t, uint16(0), sub.RecordTag)
	assert.Equal(t, model.DataUndefined, sub.RecordKind)
}

func TestParseTruncatedRecord(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))

	bgl, err := parse(t, buf[:len(buf)-4], DefaultOptions())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Nil(t, bgl)
}

func TestParseTablePastEnd(t *testing.T) {
	buf := bgltest.Build(Magic, bgltest.AirportSection(0, []bgltest.Airport{ltfm}))
	le.PutUint32(buf[HeaderSize+12:], uint32(len(buf)))

	_, err := parse(t, buf, DefaultOptions())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRegisterDecoder(t *testing.T) {
	ndb := bgltest.AirportSection(0, []bgltest.Airport{ltfm})
	ndb.Tag = 0x17
	buf := bgltest.Build(Magic, ndb)

	reader := NewReader(bytes.NewReader(buf), int64(len(buf)), DefaultOptions())
	reader.RegisterDecoder(model.SectionNdb, func(c *Cursor, sub model.Subsection) ([]model.Object, error) {
		assert.Equal(t, int64(sub.DataOffset), c.Pos())
		return []model.Object{&model.Airport{ICAO: "NDB"}}, nil
	})

	bgl, err := reader.Parse()
	require.NoError(t, err)
	require.Len(t, bgl.Objects, 1)
	assert.Equal(t, "NDB", bgl.Airports()[0].ICAO)

	reader.RegisterDecoder(model.SectionNdb, nil)
	bgl, err = reader.Parse()
	require.NoError(t, err)
	assert.Empty(t, bgl.Objects)
}

func TestCursor(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xFF, 0xFF, 0xFF, 0xFF}
	c := NewCursor(bytes.NewReader(data), int64(len(data)))

	v16, err := c.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v16)

	require.NoError(t, c.Skip(2))
	v32, err := c.I32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v32)

	_, err = c.U8()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.ErrorIs(t, c.Skip(1), io.ErrUnexpectedEOF)

	require.ErrorIs(t, c.Seek(9), io.ErrUnexpectedEOF)
	require.NoError(t, c.Seek(8))
}
