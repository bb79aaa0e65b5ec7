package model

// BGLFile represents the decoded contents of one BGL container.
// Only the structures needed to reach records are kept; reserved
// header bytes are skipped by the reader.
type BGLFile struct {
	Header   Header
	Sections []Section
	Objects  []Object
}

// Header contains the fixed container header fields
type Header struct {
	Magic        uint32 // 0x19920201 for valid files
	HeaderSize   uint32 // Size of the header region in bytes
	SectionCount uint32 // Number of section directory entries
}

// Section is one entry of the section directory
type Section struct {
	Kind            SectionKind
	Tag             uint32 // Raw section type tag as stored on disk
	StrideRaw       uint32 // Raw subsection size field (flag bits included)
	Stride          uint32 // Derived subsection entry stride in bytes
	SubsectionCount uint32
	TableOffset     uint32 // Absolute offset of the subsection table
	TotalSize       uint32 // Total subsection data size (informational)
	Subsections     []Subsection
}

// Subsection is one entry of a section's subsection table
type Subsection struct {
	RecordCount uint32
	DataOffset  uint32 // Absolute offset of the record data
	DataSize    uint32

	// RecordTag is the type tag of the first record in the data, zero
	// when the data is too short to hold one
	RecordTag  uint16
	RecordKind DataKind
}

// ObjectKind identifies the variant held by an Object
type ObjectKind int

const (
	ObjectAirport ObjectKind = iota + 1
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectAirport:
		return "airport"
	default:
		return "unknown"
	}
}

// Object is a decoded domain object. The set of implementations is
// closed; switch on the concrete type or on Kind().
type Object interface {
	Kind() ObjectKind
	object()
}

// Airport is a decoded airport record
type Airport struct {
	ICAO        string  `json:"icao"`         // Up to 4 characters, " " when absent
	Latitude    float64 `json:"latitude"`     // Degrees, positive north
	Longitude   float64 `json:"longitude"`    // Degrees, positive east
	Altitude    float64 `json:"altitude"`     // Meters
	RunwayCount uint8   `json:"runway_count"` // Number of runway records
}

func (*Airport) Kind() ObjectKind { return ObjectAirport }
func (*Airport) object()          {}

// InRange reports whether the coordinates lie on the globe.
// Decoding never rejects out-of-range values.
func (a *Airport) InRange() bool {
	return a.Latitude >= -90 && a.Latitude <= 90 &&
		a.Longitude >= -180 && a.Longitude <= 180
}

// Airports returns the airport objects of the file in decode order
func (f *BGLFile) Airports() []*Airport {
	var out []*Airport
	for _, obj := range f.Objects {
		if a, ok := obj.(*Airport); ok {
			out = append(out, a)
		}
	}
	return out
}

// NewBGLFile creates a new empty BGL file structure
func NewBGLFile() *BGLFile {
	return &BGLFile{
		Sections: make([]Section, 0),
		Objects:  make([]Object, 0),
	}
}
