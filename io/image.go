package io

import (
	"encoding/binary"
	"io"
	"iter"
)

const (
	WORD_SIZE = 4 // Bytes per image word.
)

// Image is a flat binary memory image, holding both code and data.
type Image []byte

// LoadImage reads a raw binary image, and zero pads it up to size bytes.
// Images larger than size are never truncated.
func LoadImage(r io.Reader, size int) (image Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	image = Image(data).Pad(size)
	return
}

// Pad returns the image zero padded to at least size bytes. A padded
// image is a new copy; the receiver's backing array is never written.
func (image Image) Pad(size int) Image {
	if len(image) >= size {
		return image
	}
	padded := make(Image, size)
	copy(padded, image)
	return padded
}

// Words returns an iterator over the little-endian words of the image,
// by byte offset. A trailing partial word is zero extended.
func (image Image) Words() iter.Seq2[uint32, uint32] {
	return func(yield func(offset uint32, word uint32) bool) {
		for offset := 0; offset < len(image); offset += WORD_SIZE {
			var word [WORD_SIZE]byte
			copy(word[:], image[offset:])
			if !yield(uint32(offset), binary.LittleEndian.Uint32(word[:])) {
				return
			}
		}
	}
}

// WriteTo writes the raw image to w.
func (image Image) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(image)
	n = int64(written)
	return
}
