package palette

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"

	"palgen/pix"
)

// RIFF PAL (LOGPALETTE) files carry version 3 tables of 4-byte RGB
// entries. Palettes may import one as a block of fixed entries.

var (
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// AddFixedPAL reads a RIFF PAL stream and declares its colors as fixed
// entries at sequential indices starting at base.
func (p *Palette) AddFixedPAL(r io.Reader, base int, exact bool) error {
	pal, err := ReadPAL(r)
	if err != nil {
		return fmt.Errorf("could not load fixed palette: %w", err)
	}

	for i, col := range pal {
		c := color.NRGBAModel.Convert(col).(color.NRGBA)
		err := p.AddFixed(Entry{
			Color: pix.Color{R: c.R, G: c.G, B: c.B, A: 0xFF},
			Index: base + i,
			Exact: exact,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadPAL reads the first palette from a RIFF PAL stream.
func ReadPAL(r io.Reader) (color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	for {
		id, _, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("RIFF stream holds no palette data chunk")
			}
			return nil, fmt.Errorf("could not read chunk: %w", err)
		}
		if id != dataType {
			continue
		}
		return readPalette(data)
	}
}

func readPalette(r io.Reader) (color.Palette, error) {
	buf := make([]byte, 2)

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read palette version: %w", err)
	}
	if ver := binary.BigEndian.Uint16(buf); ver != 3 {
		return nil, fmt.Errorf("unsupported palette version: %d", ver)
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read number of entries: %w", err)
	}
	count := binary.LittleEndian.Uint16(buf)

	res := make(color.Palette, count)
	entry := make([]byte, 4)
	for i := range count {
		if _, err := io.ReadFull(r, entry); err != nil {
			return res, fmt.Errorf("could not read color %d/%d: %w", i, count, err)
		}
		res[i] = color.NRGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xFF}
	}

	return res, nil
}

// WritePAL writes pal as a single-table RIFF PAL stream.
func WritePAL(w io.Writer, pal color.Palette) error {
	// data chunk header + palVersion + palNumEntries + 4 bytes per color.
	chunkSize := 4 + len(pal)*4
	docSize := 4 + 8 + chunkSize

	var hdr []byte
	hdr = append(hdr, 'R', 'I', 'F', 'F')
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(docSize))
	hdr = append(hdr, palType[:]...)
	hdr = append(hdr, dataType[:]...)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(chunkSize))
	hdr = append(hdr, 0x00, 0x03)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(len(pal)))
	if err := writeBytes(w, hdr); err != nil {
		return fmt.Errorf("could not write PAL header: %w", err)
	}

	for i, col := range pal {
		c := color.NRGBAModel.Convert(col).(color.NRGBA)
		if err := writeBytes(w, []byte{c.R, c.G, c.B, 0x00}); err != nil {
			return fmt.Errorf("could not write color %d/%d: %w", i, len(pal), err)
		}
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}
	return nil
}
