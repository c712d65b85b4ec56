package rasterio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/rasterforge/mosaic"
)

// DecodeImage decodes a PNG, TIFF, or BMP file (by extension) into an
// in-memory U8 SourceImage: 1 band for an 8-bit *image.Gray, 4 (RGBA) for
// every other color model.
func DecodeImage(path string) (*StaticImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := decodeByExt(f, path)
	if err != nil {
		return nil, fmt.Errorf("rasterio: decoding %s: %w", path, err)
	}

	return NewStaticImage(accessorFromImage(img)), nil
}

func decodeByExt(f *os.File, path string) (image.Image, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Decode(f)
	case ".tif", ".tiff":
		return tiff.Decode(f)
	case ".bmp":
		return bmp.Decode(f)
	default:
		img, _, err := image.Decode(f)
		return img, err
	}
}

// accessorFromImage copies a decoded image.Image into a band-planar U8
// accessor: gray images become single-band, everything else becomes
// 4-band RGBA.
func accessorFromImage(img image.Image) *mosaic.ExtendedTileAccessor {
	bounds := img.Bounds()
	rect := mosaic.NewRect(bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy())

	if gray, ok := img.(*image.Gray); ok {
		out := mosaic.NewExtendedTileAccessor(mosaic.U8, 1, rect, 0)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				out.Set(x, y, 0, float64(gray.GrayAt(x, y).Y))
			}
		}
		return out
	}

	out := mosaic.NewExtendedTileAccessor(mosaic.U8, 4, rect, 0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.Set(x, y, 0, float64(r>>8))
			out.Set(x, y, 1, float64(g>>8))
			out.Set(x, y, 2, float64(b>>8))
			out.Set(x, y, 3, float64(a>>8))
		}
	}
	return out
}
