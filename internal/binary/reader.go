package binary

import (
	"errors"
	"fmt"
	"io"

	"github.com/dyuri/bglconv/internal/model"
	"github.com/sirupsen/logrus"
)

// Layout constants of the BGL container
const (
	Magic              = 0x19920201 // First header field of every BGL file
	HeaderSize         = 0x38       // Fixed header region, reserved bytes included
	SectionEntrySize   = 20         // One section directory entry
	subsectionMinBytes = 16         // Fields read from each subsection entry
)

var (
	// ErrBadMagic is returned when the header magic does not match Magic
	ErrBadMagic = errors.New("bad magic number")

	// ErrRecordSize is returned when a record declares a size too small
	// to step over
	ErrRecordSize = errors.New("invalid record size")
)

// Options controls how a container is decoded
type Options struct {
	// VerifyMagic rejects files whose header magic is not Magic
	VerifyMagic bool

	// Logger receives structural debug output. Nil discards it.
	Logger logrus.FieldLogger
}

// DefaultOptions returns the options used when none are given
func DefaultOptions() Options {
	return Options{VerifyMagic: true}
}

// RecordDecoder decodes the records of one subsection. The cursor is
// positioned at the subsection's data offset.
type RecordDecoder func(c *Cursor, sub model.Subsection) ([]model.Object, error)

// defaultDecoders lists the section kinds that produce objects.
// Every other kind is walked but skipped.
var defaultDecoders = map[model.SectionKind]RecordDecoder{
	model.SectionAirport: DecodeAirports,
}

// Reader handles parsing of binary BGL files
type Reader struct {
	r        io.ReaderAt
	size     int64
	opts     Options
	log      logrus.FieldLogger
	decoders map[model.SectionKind]RecordDecoder
}

// NewReader creates a new binary BGL reader
func NewReader(r io.ReaderAt, size int64, opts Options) *Reader {
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	decoders := make(map[model.SectionKind]RecordDecoder, len(defaultDecoders))
	for kind, dec := range defaultDecoders {
		decoders[kind] = dec
	}

	return &Reader{
		r:        r,
		size:     size,
		opts:     opts,
		log:      log,
		decoders: decoders,
	}
}

// RegisterDecoder sets the decoder used for sections of the given kind
// on this reader. A nil decoder makes the kind skipped again.
func (r *Reader) RegisterDecoder(kind model.SectionKind, dec RecordDecoder) {
	if dec == nil {
		delete(r.decoders, kind)
		return
	}
	r.decoders[kind] = dec
}

// Parse reads the whole container and decodes every supported record.
// Any error aborts the walk; no partial result is returned.
func (r *Reader) Parse() (*model.BGLFile, error) {
	bgl, err := r.ReadLayout()
	if err != nil {
		return nil, err
	}

	c := NewCursor(r.r, r.size)
	for i, sec := range bgl.Sections {
		decode, ok := r.decoders[sec.Kind]
		if !ok {
			r.log.WithFields(logrus.Fields{
				"section": i,
				"tag":     fmt.Sprintf("0x%x", sec.Tag),
				"kind":    sec.Kind.String(),
			}).Debug("skipping section without decoder")
			continue
		}

		for j, sub := range sec.Subsections {
			if err := c.Seek(int64(sub.DataOffset)); err != nil {
				return nil, fmt.Errorf("section %d subsection %d: %w", i, j, err)
			}
			objs, err := decode(c, sub)
			if err != nil {
				return nil, fmt.Errorf("section %d (%s) subsection %d at 0x%x: %w", i, sec.Kind, j, sub.DataOffset, err)
			}
			bgl.Objects = append(bgl.Objects, objs...)
		}
	}

	r.log.WithField("objects", len(bgl.Objects)).Debug("decoded container")
	return bgl, nil
}

// ReadLayout reads the header, the section directory and every
// subsection table without decoding records
func (r *Reader) ReadLayout() (*model.BGLFile, error) {
	bgl := model.NewBGLFile()

	c := NewCursor(r.r, r.size)
	header, err := r.ReadHeader(c)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	bgl.Header = *header

	sections, err := r.ReadSectionDirectory(c, header.SectionCount)
	if err != nil {
		return nil, fmt.Errorf("read section directory: %w", err)
	}

	for i := range sections {
		subs, err := r.ReadSubsections(c, sections[i])
		if err != nil {
			return nil, fmt.Errorf("read subsections of section %d (%s): %w", i, sections[i].Kind, err)
		}
		sections[i].Subsections = subs
	}
	bgl.Sections = sections

	return bgl, nil
}

// ReadHeader reads the fixed header at offset 0 and leaves the cursor
// at the first section directory entry
func (r *Reader) ReadHeader(c *Cursor) (*model.Header, error) {
	if err := c.Seek(0); err != nil {
		return nil, err
	}
	buf, err := c.Read(HeaderSize)
	if err != nil {
		return nil, err
	}

	// 0x00: magic, 0x04: header size
	// 0x08-0x13: creation time and second magic, not decoded
	// 0x14: section count
	// 0x18-0x37: reserved
	header := &model.Header{
		Magic:        c.endian.Uint32(buf[0x00:0x04]),
		HeaderSize:   c.endian.Uint32(buf[0x04:0x08]),
		SectionCount: c.endian.Uint32(buf[0x14:0x18]),
	}

	r.log.WithFields(logrus.Fields{
		"magic":    fmt.Sprintf("0x%08x", header.Magic),
		"size":     header.HeaderSize,
		"sections": header.SectionCount,
	}).Debug("header")

	if r.opts.VerifyMagic && header.Magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08x, want 0x%08x", ErrBadMagic, header.Magic, uint32(Magic))
	}

	return header, nil
}

// SubsectionStride derives the byte stride of a section's subsection
// table from the raw size field. Only bit 16 of the field selects the
// size; bit 18 is always set before scaling down by 14 bits.
func SubsectionStride(raw uint32) uint32 {
	return uint32(int32((raw&0x10000)|0x40000) >> 14)
}

// ReadSectionDirectory reads count section entries starting at the
// cursor position
func (r *Reader) ReadSectionDirectory(c *Cursor, count uint32) ([]model.Section, error) {
	if need := int64(count) * SectionEntrySize; need > c.Size()-c.Pos() {
		return nil, fmt.Errorf("%d sections need %d bytes at 0x%x, file has %d: %w",
			count, need, c.Pos(), c.Size(), io.ErrUnexpectedEOF)
	}

	sections := make([]model.Section, count)
	for i := range sections {
		buf, err := c.Read(SectionEntrySize)
		if err != nil {
			return nil, fmt.Errorf("read section entry %d: %w", i, err)
		}

		tag := c.endian.Uint32(buf[0:4])
		strideRaw := c.endian.Uint32(buf[4:8])
		sections[i] = model.Section{
			Kind:            model.SectionKindOf(tag),
			Tag:             tag,
			StrideRaw:       strideRaw,
			Stride:          SubsectionStride(strideRaw),
			SubsectionCount: c.endian.Uint32(buf[8:12]),
			TableOffset:     c.endian.Uint32(buf[12:16]),
			TotalSize:       c.endian.Uint32(buf[16:20]),
		}

		r.log.WithFields(logrus.Fields{
			"section":     i,
			"tag":         fmt.Sprintf("0x%x", tag),
			"kind":        sections[i].Kind.String(),
			"stride":      sections[i].Stride,
			"subsections": sections[i].SubsectionCount,
			"offset":      sections[i].TableOffset,
			"total_size":  sections[i].TotalSize,
		}).Debug("section")
	}

	return sections, nil
}

// ReadSubsections reads the subsection table of a section. Data offsets
// are not checked here; sections without a decoder never touch their data.
func (r *Reader) ReadSubsections(c *Cursor, sec model.Section) ([]model.Subsection, error) {
	// The last entry only needs its 16 used bytes, whatever the stride
	if sec.SubsectionCount > 0 {
		last := int64(sec.TableOffset) + int64(sec.SubsectionCount-1)*int64(sec.Stride) + subsectionMinBytes
		if last > c.Size() {
			return nil, fmt.Errorf("subsection table at 0x%x with %d entries ends past end of file: %w",
				sec.TableOffset, sec.SubsectionCount, io.ErrUnexpectedEOF)
		}
	}

	subs := make([]model.Subsection, sec.SubsectionCount)
	for i := range subs {
		pos := int64(sec.TableOffset) + int64(i)*int64(sec.Stride)
		if err := c.Seek(pos); err != nil {
			return nil, fmt.Errorf("subsection %d: %w", i, err)
		}
		sub, err := readSubsectionEntry(c)
		if err != nil {
			return nil, fmt.Errorf("read subsection %d: %w", i, err)
		}
		if err := peekRecordTag(c, &sub); err != nil {
			return nil, fmt.Errorf("subsection %d record tag: %w", i, err)
		}
		subs[i] = sub
	}

	return subs, nil
}

func readSubsectionEntry(c *Cursor) (sub model.Subsection, err error) {
	// Bytes 0-3 are reserved
	if err = c.Skip(4); err != nil {
		return sub, err
	}
	if sub.RecordCount, err = c.U32(); err != nil {
		return sub, err
	}
	if sub.DataOffset, err = c.U32(); err != nil {
		return sub, err
	}
	sub.DataSize, err = c.U32()
	return sub, err
}

// peekRecordTag fills in the type tag of the first record of sub. Data
// that lies outside the file or is too short leaves the tag unset.
func peekRecordTag(c *Cursor, sub *model.Subsection) error {
	if sub.DataSize < 2 || int64(sub.DataOffset)+2 > c.Size() {
		return nil
	}
	if err := c.Seek(int64(sub.DataOffset)); err != nil {
		return err
	}
	tag, err := c.U16()
	if err != nil {
		return err
	}
	sub.RecordTag = tag
	sub.RecordKind = model.DataKindOf(uint32(tag))
	return nil
}
