package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionKindOf(t *testing.T) {
	assert.Equal(t, SectionAirport, SectionKindOf(0x3))
	assert.Equal(t, SectionNameList, SectionKindOf(0x27))
	assert.Equal(t, SectionTerrainSeason, SectionKindOf(0x6E))
	assert.Equal(t, SectionTerrainSeason, SectionKindOf(0x79))
	assert.Equal(t, SectionTerrainPhoto, SectionKindOf(0x7A))
	assert.Equal(t, SectionUndefined, SectionKindOf(0xDEAD))
	assert.Equal(t, SectionUndefined, SectionKindOf(0xFFFFFFFF))
}

func TestSectionKindNames(t *testing.T) {
	for tag, kind := range sectionTags {
		assert.Contains(t, sectionNames, kind, "tag 0x%x", tag)
	}
	assert.Equal(t, "Airport", SectionAirport.String())
	assert.Equal(t, "Undefined", SectionKindOf(0x9999).String())
	assert.Equal(t, "SectionKind(999)", SectionKind(999).String())
}

func TestDataKindOf(t *testing.T) {
	assert.Equal(t, DataAirport, DataKindOf(0x3C))
	assert.Equal(t, DataAirportMsfs, DataKindOf(0x56))
	assert.Equal(t, DataDeleteAirport, DataKindOf(0x33))
	assert.Equal(t, DataUndefined, DataKindOf(0x1B))

	for tag, kind := range dataTags {
		assert.Contains(t, dataNames, kind, "tag 0x%x", tag)
	}
	assert.Equal(t, "Runway", DataRunway.String())
}

func TestAirportInRange(t *testing.T) {
	a := &Airport{Latitude: 41.2, Longitude: 28.7}
	assert.True(t, a.InRange())
	assert.Equal(t, ObjectAirport, a.Kind())

	a.Longitude = 1740
	assert.False(t, a.InRange())
}

func TestBGLFileAirports(t *testing.T) {
	f := NewBGLFile()
	f.Objects = append(f.Objects, &Airport{ICAO: "LTFM"}, &Airport{ICAO: "EDDF"})

	airports := f.Airports()
	assert.Len(t, airports, 2)
	assert.Equal(t, "EDDF", airports[1].ICAO)
}
