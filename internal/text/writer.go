package text

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dyuri/bglconv/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Writer handles writing decoded BGL data as human-readable text
type Writer struct {
	w io.Writer
	p *message.Printer
}

// NewWriter creates a new text writer
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, p: message.NewPrinter(language.English)}
}

// WriteAirports writes one line per airport:
// ICAO, latitude, longitude, altitude and runway count
func (w *Writer) WriteAirports(airports []*model.Airport) error {
	tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ICAO\tLATITUDE\tLONGITUDE\tALTITUDE (m)\tRUNWAYS"); err != nil {
		return err
	}

	for _, a := range airports {
		_, err := fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.1f\t%d\n",
			displayIdent(a.ICAO), a.Latitude, a.Longitude, a.Altitude, a.RunwayCount)
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

// WriteLayout writes the header and section directory of a file
func (w *Writer) WriteLayout(bgl *model.BGLFile, fileSize int64) error {
	if err := w.writeHeader(bgl.Header, fileSize); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := w.writeSections(bgl.Sections); err != nil {
		return fmt.Errorf("write sections: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(h model.Header, fileSize int64) error {
	_, err := fmt.Fprintf(w.w, "Header:\n"+
		"  Magic:        0x%08x\n"+
		"  Header size:  %d bytes\n"+
		"  Sections:     %d\n"+
		"  File size:    %s bytes\n\n",
		h.Magic, h.HeaderSize, h.SectionCount, w.p.Sprintf("%d", fileSize))
	return err
}

func (w *Writer) writeSections(sections []model.Section) error {
	tw := tabwriter.NewWriter(w.w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\tTAG\tKIND\tSTRIDE\tSUBSECTIONS\tRECORDS\tTABLE\tSIZE\tFIRST RECORD"); err != nil {
		return err
	}

	for i, sec := range sections {
		var records uint64
		for _, sub := range sec.Subsections {
			records += uint64(sub.RecordCount)
		}
		_, err := fmt.Fprintf(tw, "%d\t0x%x\t%s\t%d\t%d\t%d\t0x%x\t%s\t%s\n",
			i, sec.Tag, sec.Kind, sec.Stride, sec.SubsectionCount, records, sec.TableOffset,
			w.p.Sprintf("%d", sec.TotalSize), firstRecord(sec))
		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

// firstRecord names the record type found at the start of the first
// subsection, "-" when there is none
func firstRecord(sec model.Section) string {
	if len(sec.Subsections) == 0 || sec.Subsections[0].RecordTag == 0 {
		return "-"
	}
	sub := sec.Subsections[0]
	return fmt.Sprintf("%s(0x%x)", sub.RecordKind, sub.RecordTag)
}

// displayIdent makes the blank identifier visible in listings
func displayIdent(icao string) string {
	if strings.TrimSpace(icao) == "" {
		return "-"
	}
	return icao
}
