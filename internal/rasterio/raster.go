// Package rasterio provides host-side SourceImage, AlphaImage, and RoiMask
// adapters backed by mmap'd raw raster files and decoded common image
// formats (PNG, TIFF, BMP). The compositor core never touches a file
// handle; everything it consumes comes through these adapters.
package rasterio

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/rasterforge/mosaic"
)

// magic identifies a raw raster file produced by WriteRaster.
var magic = [4]byte{'R', 'F', 'M', 'R'}

const headerSize = 16

// MmapRaster is a memory-mapped, band-planar raw raster file exposed as a
// mosaic.SourceImage (and, for single-band files, a mosaic.AlphaImage).
type MmapRaster struct {
	reader *mmapReader
	bounds mosaic.Rect
	format mosaic.SampleFormat
	bands  int
	data   []byte // band-planar payload, immediately after the header
}

// OpenMmapRaster memory-maps path and parses its header.
func OpenMmapRaster(path string) (*MmapRaster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader, err := newMmapReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	buf := reader.Bytes()
	if len(buf) < headerSize {
		reader.Close()
		return nil, fmt.Errorf("rasterio: file too small for header: %s", path)
	}
	if buf[0] != magic[0] || buf[1] != magic[1] || buf[2] != magic[2] || buf[3] != magic[3] {
		reader.Close()
		return nil, fmt.Errorf("rasterio: bad magic in %s", path)
	}

	format := mosaic.SampleFormat(buf[4])
	bands := int(buf[5])
	width := int(int32(binary.LittleEndian.Uint32(buf[8:12])))
	height := int(int32(binary.LittleEndian.Uint32(buf[12:16])))

	if !format.IsValid() {
		reader.Close()
		return nil, fmt.Errorf("rasterio: unsupported sample format %d in %s", buf[4], path)
	}
	if bands <= 0 || width <= 0 || height <= 0 {
		reader.Close()
		return nil, fmt.Errorf("rasterio: invalid dimensions in %s", path)
	}

	want := headerSize + bands*width*height*format.Size()
	if len(buf) < want {
		reader.Close()
		return nil, fmt.Errorf("rasterio: truncated payload in %s: have %d bytes, want %d", path, len(buf), want)
	}

	return &MmapRaster{
		reader: reader,
		bounds: mosaic.NewRect(0, 0, width, height),
		format: format,
		bands:  bands,
		data:   buf[headerSize:want],
	}, nil
}

// Close unmaps the backing file.
func (r *MmapRaster) Close() error {
	return r.reader.Close()
}

func (r *MmapRaster) Bounds() mosaic.Rect         { return r.bounds }
func (r *MmapRaster) Format() mosaic.SampleFormat { return r.format }
func (r *MmapRaster) Bands() int                  { return r.bands }

func (r *MmapRaster) planeSize() int {
	return r.bounds.Width() * r.bounds.Height() * r.format.Size()
}

func (r *MmapRaster) sampleAt(x, y, band int) float64 {
	w := r.bounds.Width()
	sz := r.format.Size()
	off := band*r.planeSize() + (y*w+x)*sz
	b := r.data[off:]
	switch r.format {
	case mosaic.U8:
		return float64(b[0])
	case mosaic.U16:
		return float64(binary.LittleEndian.Uint16(b))
	case mosaic.I16:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case mosaic.I32:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case mosaic.F32:
		bits := binary.LittleEndian.Uint32(b)
		return float64(math.Float32frombits(bits))
	case mosaic.F64:
		bits := binary.LittleEndian.Uint64(b)
		return math.Float64frombits(bits)
	default:
		return 0
	}
}

// GetExtendedData implements mosaic.SourceImage and mosaic.AlphaImage,
// reading every in-bounds sample directly from the mapped file and
// padding the rest with the border policy's fill value.
func (r *MmapRaster) GetExtendedData(rect mosaic.Rect, border mosaic.BorderExtender) (*mosaic.ExtendedTileAccessor, error) {
	out := mosaic.NewExtendedTileAccessor(r.format, r.bands, rect, 0)
	fill := border.FillData(r.format)
	for b := 0; b < r.bands; b++ {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if r.bounds.Contains(x, y) {
					out.Set(x, y, b, r.sampleAt(x, y, b))
				} else {
					out.Set(x, y, b, fill)
				}
			}
		}
	}
	return out, nil
}

// WriteRaster writes acc to path in the format read by OpenMmapRaster.
func WriteRaster(path string, acc *mosaic.ExtendedTileAccessor) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w, h := acc.Bounds.Width(), acc.Bounds.Height()
	header := make([]byte, headerSize)
	copy(header[0:4], magic[:])
	header[4] = byte(acc.Format)
	header[5] = byte(acc.Bands)
	binary.LittleEndian.PutUint32(header[8:12], uint32(w))
	binary.LittleEndian.PutUint32(header[12:16], uint32(h))
	if _, err := f.Write(header); err != nil {
		return err
	}

	sz := acc.Format.Size()
	buf := make([]byte, sz)
	for b := 0; b < acc.Bands; b++ {
		for y := acc.Bounds.Min.Y; y < acc.Bounds.Max.Y; y++ {
			for x := acc.Bounds.Min.X; x < acc.Bounds.Max.X; x++ {
				encodeSample(buf, acc, x, y, b)
				if _, err := f.Write(buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func encodeSample(buf []byte, acc *mosaic.ExtendedTileAccessor, x, y, band int) {
	switch acc.Format {
	case mosaic.U8:
		buf[0] = acc.U8(x, y, band)
	case mosaic.U16:
		binary.LittleEndian.PutUint16(buf, acc.U16(x, y, band))
	case mosaic.I16:
		binary.LittleEndian.PutUint16(buf, uint16(acc.I16(x, y, band)))
	case mosaic.I32:
		binary.LittleEndian.PutUint32(buf, uint32(acc.I32(x, y, band)))
	case mosaic.F32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(acc.F32(x, y, band)))
	case mosaic.F64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(acc.F64(x, y, band)))
	}
}
