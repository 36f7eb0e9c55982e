package jpeg

// lookaheadBits is L_LA in the spec's terminology: the width of the fast
// lookahead table. 8 is the conventional choice (libjpeg, and
// original_source/src/huffman.c's HUFF_LOOKAHEAD) and covers the vast
// majority of real-world codes in one table probe.
const lookaheadBits = 8

// huffLUTEntry is one slot of the 2^lookaheadBits fast-path table: the
// symbol this code prefix decodes to, and how many bits of the prefix it
// actually consumes. A zero length marks "no code of length <= L_LA has
// this prefix", per spec 4.2 step 1.
type huffLUTEntry struct {
	symbol uint8
	length uint8
}

// huffCode is one canonical code, used by the slow bit-at-a-time fallback.
type huffCode struct {
	code   uint16
	length uint8
	symbol uint8
}

// huffmanTable is the derived form of one DHT (class, id) slot: a fast
// lookahead table plus the full sorted code list for codes longer than
// lookaheadBits. Grounded on original_source/src/huffman.c's lookahead
// table construction and linear-search fallback (the teacher's own
// hcnode/buildTree binary-tree walker in analyse.go is a different, slower
// decode strategy and is not what this type implements).
type huffmanTable struct {
	lut   [1 << lookaheadBits]huffLUTEntry
	codes []huffCode // only entries with length > lookaheadBits, in any order
	valid bool
}

// buildHuffmanTable derives a huffmanTable from BITS[1..16] (counts of codes
// of each length, index 0 unused) and HUFFVAL (symbols in canonical order).
// It implements the JPEG Annex C procedure: walk lengths 1..16, assigning
// the current code value to successive HUFFVAL symbols and left-shifting on
// each length transition, while simultaneously replicating short codes
// across the lookahead table.
func buildHuffmanTable(bits [17]int, huffval []uint8) (*huffmanTable, error) {
	total := 0
	for l := 1; l <= 16; l++ {
		total += bits[l]
	}
	if total > 256 {
		return nil, newErr(MalformedStream, "buildHuffmanTable", 0,
			"sum of BITS is %d, exceeds 256", total)
	}
	if total != len(huffval) {
		return nil, newErr(MalformedStream, "buildHuffmanTable", 0,
			"BITS sum %d does not match %d HUFFVAL entries", total, len(huffval))
	}

	t := &huffmanTable{valid: true}
	code := 0
	k := 0
	for l := 1; l <= 16; l++ {
		for i := 0; i < bits[l]; i++ {
			if code >= 1<<uint(l) {
				return nil, newErr(MalformedStream, "buildHuffmanTable", 0,
					"BITS over-subscribe the %d-bit code space", l)
			}
			sym := huffval[k]
			k++
			if l <= lookaheadBits {
				shift := lookaheadBits - l
				base := code << uint(shift)
				count := 1 << uint(shift)
				for j := 0; j < count; j++ {
					t.lut[base+j] = huffLUTEntry{symbol: sym, length: uint8(l)}
				}
			} else {
				t.codes = append(t.codes, huffCode{code: uint16(code), length: uint8(l), symbol: sym})
			}
			code++
		}
		code <<= 1
	}
	return t, nil
}

// decode reads one Huffman symbol from r. It first probes the lookahead
// table with an L_LA-bit peek (the hot path); on miss it falls back to
// reading one bit at a time and checking the accumulated prefix against
// every code longer than L_LA, returning InvalidHuffmanCode if no code
// matches within 16 bits.
func (t *huffmanTable) decode(r *bitReader) (uint8, error) {
	if !t.valid {
		return 0, newErr(InvalidTableId, "huffmanTable.decode", r.pos, "huffman table not populated")
	}

	prefix := r.peekBits(lookaheadBits)
	if e := t.lut[prefix]; e.length != 0 {
		if r.nAcc < uint(e.length) {
			return 0, newErr(MalformedStream, "huffmanTable.decode", r.pos, "unexpected end of entropy data")
		}
		r.skipBits(uint(e.length))
		return e.symbol, nil
	}

	var acc uint32
	for length := uint(1); length <= 16; length++ {
		bit, err := r.readBit()
		if err != nil {
			return 0, err
		}
		acc = (acc << 1) | uint32(bit)
		if length <= lookaheadBits {
			continue // already ruled out by the lookahead probe above
		}
		for _, c := range t.codes {
			if uint(c.length) == length && uint32(c.code) == acc {
				return c.symbol, nil
			}
		}
	}
	return 0, newErr(InvalidHuffmanCode, "huffmanTable.decode", r.pos,
		"no canonical code matched after 16 bits")
}
