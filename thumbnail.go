// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package pdfprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
)

// DefaultMaxThumbnailDimension is the length, in pixels, of a thumbnail's
// longer side.
const DefaultMaxThumbnailDimension = 700

// thumbnailSize maps the longer page dimension to maxDim and scales the
// other one to keep the aspect ratio, rounding to the nearest pixel.
func thumbnailSize(pageWidth, pageHeight float64, maxDim int) (width, height int) {
	width, height = maxDim, maxDim
	if pageWidth > pageHeight {
		height = scaledDimension(maxDim, pageHeight, pageWidth)
	} else {
		width = scaledDimension(maxDim, pageWidth, pageHeight)
	}
	return width, height
}

func scaledDimension(maxDim int, short, long float64) int {
	if long <= 0 || short <= 0 {
		return 1
	}
	return max(int(math.Round(float64(maxDim)*short/long)), 1)
}

// encodeThumbnail converts pb to PNG. It rewrites pb.Pix in place from BGRA
// to opaque RGBA so no second full-size buffer is allocated; an opaque image
// is written as 8-bit RGB.
func encodeThumbnail(pb *PixelBuffer) ([]byte, error) {
	if pb.Width <= 0 || pb.Height <= 0 || pb.Stride < 4*pb.Width {
		return nil, fmt.Errorf("invalid pixel buffer %dx%d stride %d", pb.Width, pb.Height, pb.Stride)
	}
	if len(pb.Pix) < pb.Stride*(pb.Height-1)+4*pb.Width {
		return nil, fmt.Errorf("pixel buffer holds %d bytes; need %dx%d at stride %d", len(pb.Pix), pb.Width, pb.Height, pb.Stride)
	}

	bgraToRGBA(pb)

	img := &image.RGBA{
		Pix:    pb.Pix,
		Stride: pb.Stride,
		Rect:   image.Rect(0, 0, pb.Width, pb.Height),
	}
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func bgraToRGBA(pb *PixelBuffer) {
	for y := 0; y < pb.Height; y++ {
		row := pb.Pix[y*pb.Stride : y*pb.Stride+4*pb.Width]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+2] = row[i+2], row[i]
			row[i+3] = 0xff
		}
	}
}
