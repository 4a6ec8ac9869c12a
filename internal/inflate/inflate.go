// Package inflate implements a zlib-framed DEFLATE decoder for the typed
// arrays embedded in binary FBX files: a 2-byte zlib header, a raw
// DEFLATE stream (stored / fixed-Huffman / dynamic-Huffman blocks), and a
// trailing big-endian Adler-32 checksum. Callers supply a Retain struct
// that caches the (stable) fixed Huffman tables across calls so decoding
// the many small arrays in a typical mesh doesn't rebuild them each time.
package inflate

import (
	"encoding/binary"
	"errors"
)

// Error codes distinguish the failure family; callers generally only
// need to know decoding failed (any non-nil error), but distinct
// sentinels make tests and diagnostics precise, mirroring the reference
// decoder's negative-code-per-failure-class convention.
var (
	ErrBadZlibHeader  = errors.New("inflate: bad zlib header")
	ErrBadBlockType   = errors.New("inflate: unsupported block type")
	ErrHuffmanOverfull = errors.New("inflate: huffman tree overfull")
	ErrHuffmanUnderfull = errors.New("inflate: huffman tree underfull")
	ErrBadLengthCode  = errors.New("inflate: bad length code")
	ErrBadDistance    = errors.New("inflate: distance out of range")
	ErrShortOutput    = errors.New("inflate: output buffer too small")
	ErrTruncated      = errors.New("inflate: truncated input")
	ErrAdlerMismatch  = errors.New("inflate: adler-32 checksum mismatch")
)

// Retain caches Huffman decode tables that never change across calls:
// the fixed literal/length and distance tables defined by the DEFLATE
// format itself. Reuse one Retain across many Inflate calls in the same
// load to skip rebuilding them per array.
type Retain struct {
	fixedLit  *huffmanTable
	fixedDist *huffmanTable
	built     bool
}

func (r *Retain) ensureFixed() {
	if r.built {
		return
	}
	litLens := make([]int, 288)
	for i := 0; i < 144; i++ {
		litLens[i] = 8
	}
	for i := 144; i < 256; i++ {
		litLens[i] = 9
	}
	for i := 256; i < 280; i++ {
		litLens[i] = 7
	}
	for i := 280; i < 288; i++ {
		litLens[i] = 8
	}
	distLens := make([]int, 32)
	for i := range distLens {
		distLens[i] = 5
	}
	r.fixedLit, _ = buildHuffman(litLens)
	r.fixedDist, _ = buildHuffman(distLens)
	r.built = true
}

// Inflate decompresses a zlib-framed DEFLATE stream from src into dst,
// which must be large enough to hold the fully decompressed output (the
// binary FBX array header records the exact decoded length up front).
// It returns the number of bytes written, which on success always equals
// len(dst).
func Inflate(dst []byte, src []byte, retain *Retain) (int, error) {

	if len(src) < 2 {
		return 0, ErrTruncated
	}
	cmf, flg := src[0], src[1]
	if cmf&0x0f != 8 {
		return 0, ErrBadZlibHeader
	}
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return 0, ErrBadZlibHeader
	}
	if flg&0x20 != 0 {
		// FDICT set: preset dictionaries are not part of the FBX framing contract.
		return 0, ErrBadZlibHeader
	}

	if retain == nil {
		retain = &Retain{}
	}
	retain.ensureFixed()

	body := src[2:]
	if len(body) < 4 {
		return 0, ErrTruncated
	}
	payload := body[:len(body)-4]
	trailer := body[len(body)-4:]

	br := &bitReader{buf: payload}
	n, err := inflateRaw(dst, br, retain)
	if err != nil {
		return n, err
	}

	wantAdler := binary.BigEndian.Uint32(trailer)
	if adler32(dst[:n]) != wantAdler {
		return n, ErrAdlerMismatch
	}
	if n != len(dst) {
		return n, ErrTruncated
	}
	return n, nil
}

// inflateRaw decodes the raw (header/trailer-free) DEFLATE block stream.
func inflateRaw(dst []byte, br *bitReader, retain *Retain) (int, error) {
	out := 0
	for {
		final, err := br.bits(1)
		if err != nil {
			return out, ErrTruncated
		}
		btype, err := br.bits(2)
		if err != nil {
			return out, ErrTruncated
		}

		var n int
		switch btype {
		case 0:
			n, err = inflateStored(dst[out:], br)
			n += out
		case 1:
			n, err = inflateHuffman(dst, out, br, retain.fixedLit, retain.fixedDist)
		case 2:
			lit, dist, derr := readDynamicTables(br)
			if derr != nil {
				return out, derr
			}
			n, err = inflateHuffman(dst, out, br, lit, dist)
		default:
			return out, ErrBadBlockType
		}
		if err != nil {
			return out, err
		}
		out = n

		if final == 1 {
			return out, nil
		}
	}
}

func inflateStored(dst []byte, br *bitReader) (int, error) {
	br.align()
	lenBytes, err := br.readAlignedBytes(4)
	if err != nil {
		return 0, ErrTruncated
	}
	length := int(lenBytes[0]) | int(lenBytes[1])<<8
	nlength := int(lenBytes[2]) | int(lenBytes[3])<<8
	if length^nlength != 0xffff {
		return 0, ErrBadLengthCode
	}
	if length > len(dst) {
		return 0, ErrShortOutput
	}
	data, err := br.readAlignedBytes(length)
	if err != nil {
		return 0, ErrTruncated
	}
	copy(dst, data)
	return length, nil
}

// lengthBase/lengthExtra/distBase/distExtra pack (base_value, extra_bits)
// per symbol as the spec's LUT-based length/distance decode calls for.
var lengthBase = [29]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}
var lengthExtra = [29]int{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0}
var distBase = [30]int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}
var distExtra = [30]int{0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13}

// inflateHuffman decodes one Huffman block into dst starting at start,
// so back-references may reach into earlier blocks' output, and returns
// the new end offset.
func inflateHuffman(dst []byte, start int, br *bitReader, lit, dist *huffmanTable) (int, error) {
	out := start
	for {
		sym, err := lit.decode(br)
		if err != nil {
			return out, err
		}
		switch {
		case sym < 256:
			if out >= len(dst) {
				return out, ErrShortOutput
			}
			dst[out] = byte(sym)
			out++
		case sym == 256:
			return out, nil
		default:
			li := int(sym) - 257
			if li >= len(lengthBase) {
				return out, ErrBadLengthCode
			}
			extra, err := br.bits(lengthExtra[li])
			if err != nil {
				return out, ErrTruncated
			}
			length := lengthBase[li] + int(extra)

			dsym, err := dist.decode(br)
			if err != nil {
				return out, err
			}
			if int(dsym) >= len(distBase) {
				return out, ErrBadDistance
			}
			dextra, err := br.bits(distExtra[dsym])
			if err != nil {
				return out, ErrTruncated
			}
			distance := distBase[dsym] + int(dextra)
			if distance > out {
				return out, ErrBadDistance
			}
			if out+length > len(dst) {
				return out, ErrShortOutput
			}
			src := out - distance
			for i := 0; i < length; i++ {
				dst[out+i] = dst[src+i]
			}
			out += length
		}
	}
}

var clOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

func readDynamicTables(br *bitReader) (lit, dist *huffmanTable, err error) {
	hlit, err := br.bits(5)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	hdist, err := br.bits(5)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	hclen, err := br.bits(4)
	if err != nil {
		return nil, nil, ErrTruncated
	}
	nlit := int(hlit) + 257
	ndist := int(hdist) + 1
	nclen := int(hclen) + 4

	clLens := make([]int, 19)
	for i := 0; i < nclen; i++ {
		v, err := br.bits(3)
		if err != nil {
			return nil, nil, ErrTruncated
		}
		clLens[clOrder[i]] = int(v)
	}
	clTable, err := buildHuffman(clLens)
	if err != nil {
		return nil, nil, err
	}

	allLens := make([]int, nlit+ndist)
	for i := 0; i < len(allLens); {
		sym, err := clTable.decode(br)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym < 16:
			allLens[i] = int(sym)
			i++
		case sym == 16:
			if i == 0 {
				return nil, nil, ErrBadLengthCode
			}
			n, err := br.bits(2)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			prev := allLens[i-1]
			for k := 0; k < int(n)+3; k++ {
				allLens[i] = prev
				i++
			}
		case sym == 17:
			n, err := br.bits(3)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			i += int(n) + 3
		case sym == 18:
			n, err := br.bits(7)
			if err != nil {
				return nil, nil, ErrTruncated
			}
			i += int(n) + 11
		default:
			return nil, nil, ErrBadLengthCode
		}
	}

	lit, err = buildHuffman(allLens[:nlit])
	if err != nil {
		return nil, nil, err
	}
	dist, err = buildHuffman(allLens[nlit:])
	if err != nil {
		return nil, nil, err
	}
	return lit, dist, nil
}

func adler32(data []byte) uint32 {
	const mod = 65521
	a, b := uint32(1), uint32(0)
	for len(data) > 0 {
		chunk := data
		if len(chunk) > 5552 {
			chunk = chunk[:5552]
		}
		for _, c := range chunk {
			a += uint32(c)
			b += a
		}
		a %= mod
		b %= mod
		data = data[len(chunk):]
	}
	return b<<16 | a
}
