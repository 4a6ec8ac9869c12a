package inflate

// huffmanTable decodes canonical Huffman codes from an LSB-first bit
// stream. Codes of up to fastBits bits resolve via one lookup in a
// 1<<fastBits entry table (the common case: DEFLATE's default dynamic
// tables rarely need more than 9 bits for frequent symbols). Longer
// codes fall back to a secondary table indexed by the full maximum code
// length, keyed off the same reversed-bit convention.
type huffmanTable struct {
	fast    []fastEntry // len 1<<fastBits
	long    []fastEntry // len 1<<maxBits, used when maxBits > fastBits
	fastBits int
	maxBits  int
}

type fastEntry struct {
	sym int32
	len uint8 // 0 means "no code of this value decodes within fastBits bits"
}

const fastBits = 9

// buildHuffman constructs a decode table from per-symbol code lengths
// (0 meaning the symbol is unused). It reports ErrHuffmanOverfull or
// ErrHuffmanUnderfull for length sets that don't form a valid canonical
// Huffman tree (a single non-zero-length symbol is accepted, matching
// DEFLATE's degenerate single-symbol block allowance).
func buildHuffman(lens []int) (*huffmanTable, error) {

	maxBits := 0
	var counts [16]int
	for _, l := range lens {
		if l > 15 {
			return nil, ErrHuffmanOverfull
		}
		counts[l]++
		if l > maxBits {
			maxBits = l
		}
	}
	counts[0] = 0

	// Verify the code is complete (not overfull/underfull) using the
	// classic Kraft-inequality running-total check.
	total := 0
	left := 1
	for l := 1; l <= maxBits; l++ {
		left <<= 1
		left -= counts[l]
		if left < 0 {
			return nil, ErrHuffmanOverfull
		}
		total += counts[l]
	}
	if maxBits > 0 && left > 0 && total > 1 {
		return nil, ErrHuffmanUnderfull
	}

	// Canonical first-code-per-length table.
	var firstCode [16]int
	code := 0
	for l := 1; l <= maxBits; l++ {
		firstCode[l] = code
		code = (code + counts[l]) << 1
	}

	nextCode := firstCode
	t := &huffmanTable{
		fastBits: fastBits,
		maxBits:  maxBits,
	}
	if maxBits == 0 {
		return t, nil
	}
	t.fast = make([]fastEntry, 1<<fastBits)
	if maxBits > fastBits {
		t.long = make([]fastEntry, 1<<maxBits)
	}

	for sym, l := range lens {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		rev := reverseBits(uint16(c), l)

		if l <= fastBits {
			step := 1 << l
			for v := int(rev); v < (1 << fastBits); v += step {
				t.fast[v] = fastEntry{sym: int32(sym), len: uint8(l)}
			}
		} else {
			step := 1 << l
			for v := int(rev); v < (1 << maxBits); v += step {
				t.long[v] = fastEntry{sym: int32(sym), len: uint8(l)}
			}
		}
	}
	return t, nil
}

func reverseBits(v uint16, n int) uint16 {
	var r uint16
	for i := 0; i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// decode reads one symbol from br.
func (t *huffmanTable) decode(br *bitReader) (int32, error) {
	if t.maxBits == 0 {
		return 0, ErrHuffmanUnderfull
	}
	peek := br.peekBits(t.fastBits)
	if e := t.fast[peek]; e.len != 0 {
		br.consume(int(e.len))
		return e.sym, nil
	}
	if t.long == nil {
		return 0, ErrBadLengthCode
	}
	peek = br.peekBits(t.maxBits)
	e := t.long[peek]
	if e.len == 0 {
		return 0, ErrBadLengthCode
	}
	br.consume(int(e.len))
	return e.sym, nil
}
