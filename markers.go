package jpeg

import (
	"github.com/rs/zerolog"
)

// JPEG marker codes. Grounded on the teacher's tagged-constant marker table
// in jpeg.go, trimmed to the markers this spec's baseline decoder acts on
// (non-baseline SOF variants are kept as named constants purely so the
// parser can recognize and reject them with UnsupportedFeature).
const (
	mSOI  = 0xD8
	mEOI  = 0xD9
	mSOF0 = 0xC0
	mSOF1 = 0xC1
	mSOF2 = 0xC2
	mSOF3 = 0xC3
	mDHT  = 0xC4
	mSOF5 = 0xC5
	mSOF6 = 0xC6
	mSOF7 = 0xC7
	mSOF9 = 0xC9
	mSOF10 = 0xCA
	mSOF11 = 0xCB
	mSOF13 = 0xCD
	mSOF14 = 0xCE
	mSOF15 = 0xCF
	mDAC  = 0xCC
	mRST0 = 0xD0
	mRST7 = 0xD7
	mDQT  = 0xDB
	mDNL  = 0xDC
	mDRI  = 0xDD
	mDHP  = 0xDE
	mEXP  = 0xDF
	mSOS  = 0xDA
	mCOM  = 0xFE
)

func isAPPn(marker byte) bool { return marker >= 0xE0 && marker <= 0xEF }

func markerName(marker byte) string {
	switch marker {
	case mSOI:
		return "SOI"
	case mEOI:
		return "EOI"
	case mSOF0:
		return "SOF0"
	case mDHT:
		return "DHT"
	case mDQT:
		return "DQT"
	case mDRI:
		return "DRI"
	case mSOS:
		return "SOS"
	case mCOM:
		return "COM"
	}
	if isAPPn(marker) {
		return "APPn"
	}
	return "marker"
}

// decoder holds all state for one decode: the source buffer, the parsed
// tables and frame header, and the options/logger used for tracing. It
// plays the role the teacher's Desc struct plays, narrowed to this spec's
// single-frame, single-scan baseline scope.
type decoder struct {
	data []byte
	pos  uint

	qtables  [4]quantTable
	dcTables [4]*huffmanTable
	acTables [4]*huffmanTable

	frame *frameHeader

	// pendingRestartInterval holds a DRI value parsed before SOF (the
	// common case: DRI precedes SOF in well-formed files) until the frame
	// exists to store it on.
	pendingRestartInterval uint

	opts *Options
	log  zerolog.Logger
}

func newDecoder(data []byte, opts *Options) *decoder {
	return &decoder{data: data, opts: opts, log: opts.logger()}
}

func (d *decoder) readUint16(off uint) (uint16, error) {
	if off+2 > uint(len(d.data)) {
		return 0, newErr(MalformedStream, "readUint16", off, "truncated length field")
	}
	return uint16(d.data[off])<<8 | uint16(d.data[off+1]), nil
}

// parse walks the marker stream from offset 0, populating qtables,
// dcTables/acTables and frame, and returns the byte offset of the first
// entropy-coded byte following SOS (the scan decoder takes it from there).
// Grounded on the teacher's Parse state machine in jpeg.go (tagged marker
// dispatch, no virtual dispatch) cross-checked against
// original_source/src/jpeg_parser.c's find_next_marker/parse_jpeg_markers
// for FF FF fill-skip and truncated-segment handling.
func (d *decoder) parse() (scanStart uint, err error) {
	if len(d.data) < 2 || d.data[0] != 0xFF || d.data[1] != mSOI {
		return 0, newErr(MalformedStream, "parse", 0, "missing SOI signature")
	}
	d.pos = 2
	soiSeen := true
	_ = soiSeen

	for {
		marker, ok := d.findNextMarker()
		if !ok {
			return 0, newErr(MalformedStream, "parse", d.pos, "unexpected end of stream before EOI")
		}
		if d.opts.markersOn() {
			d.log.Debug().Str("marker", markerName(marker)).Uint("offset", d.pos).Msg("marker")
		}

		switch {
		case marker == mEOI:
			return 0, newErr(MalformedStream, "parse", d.pos, "EOI reached before SOS")

		case marker == mSOS:
			return d.parseSOS()

		case marker == mSOF0:
			if err := d.parseSOF(); err != nil {
				return 0, err
			}

		case marker == mSOF1 || marker == mSOF2 || marker == mSOF3 ||
			marker == mSOF5 || marker == mSOF6 || marker == mSOF7 ||
			marker == mSOF9 || marker == mSOF10 || marker == mSOF11 ||
			marker == mSOF13 || marker == mSOF14 || marker == mSOF15:
			return 0, newErr(UnsupportedFeature, "parse", d.pos,
				"non-baseline frame marker 0x%x not supported", marker)

		case marker == mDAC:
			return 0, newErr(UnsupportedFeature, "parse", d.pos, "arithmetic coding not supported")

		case marker == mDHP || marker == mEXP:
			return 0, newErr(UnsupportedFeature, "parse", d.pos, "hierarchical mode not supported")

		case marker == mDHT:
			if err := d.parseDHT(); err != nil {
				return 0, err
			}

		case marker == mDQT:
			if err := d.parseDQT(); err != nil {
				return 0, err
			}

		case marker == mDRI:
			if err := d.parseDRI(); err != nil {
				return 0, err
			}

		case marker == mDNL:
			if err := d.skipSegment(); err != nil {
				return 0, err
			}

		case marker == mCOM || isAPPn(marker):
			if err := d.skipSegment(); err != nil {
				return 0, err
			}

		case marker >= mRST0 && marker <= mRST7:
			return 0, newErr(MalformedStream, "parse", d.pos, "unexpected restart marker at top level")

		default:
			return 0, newErr(UnsupportedFeature, "parse", d.pos, "unsupported marker 0x%x", marker)
		}
	}
}

// findNextMarker scans forward from d.pos for the next 0xFF marker byte,
// skipping FF FF fill bytes and stray FF 00 stuffed pairs, and leaves d.pos
// positioned just past the marker code (ready to read the segment length,
// if any).
func (d *decoder) findNextMarker() (byte, bool) {
	for d.pos < uint(len(d.data)) {
		if d.data[d.pos] != 0xFF {
			d.pos++
			continue
		}
		// at an FF; find the first following byte that is not also FF
		j := d.pos + 1
		for j < uint(len(d.data)) && d.data[j] == 0xFF {
			j++
		}
		if j >= uint(len(d.data)) {
			return 0, false
		}
		marker := d.data[j]
		d.pos = j + 1
		if marker == 0x00 {
			continue // FF 00 is a stuffed byte, not a marker
		}
		return marker, true
	}
	return 0, false
}

func (d *decoder) skipSegment() error {
	sLen, err := d.readUint16(d.pos)
	if err != nil {
		return forwardErr("skipSegment", err)
	}
	if sLen < 2 || d.pos+uint(sLen) > uint(len(d.data)) {
		return newErr(MalformedStream, "skipSegment", d.pos, "segment length %d out of range", sLen)
	}
	d.pos += uint(sLen)
	return nil
}

// parseDQT parses one or more (precision, id, 64 values) tuples.
func (d *decoder) parseDQT() error {
	segEnd, err := d.segmentBounds()
	if err != nil {
		return forwardErr("parseDQT", err)
	}
	p := d.pos + 2
	for p < segEnd {
		pq := d.data[p] >> 4
		tq := d.data[p] & 0x0F
		p++
		if tq > 3 {
			return newErr(InvalidTableId, "parseDQT", p, "quantization table id %d out of range", tq)
		}
		size := uint(64)
		if pq != 0 {
			return newErr(UnsupportedFeature, "parseDQT", p, "16-bit quantization precision not supported")
		}
		if p+size > segEnd {
			return newErr(MalformedStream, "parseDQT", p, "truncated DQT table")
		}
		var qt quantTable
		for i := uint(0); i < 64; i++ {
			qt.values[i] = uint16(d.data[p+i])
		}
		qt.valid = true
		d.qtables[tq] = unzigzagQuant(qt)
		p += size
	}
	d.pos = segEnd
	return nil
}

// unzigzagQuant rewrites a quantization table (stored in zigzag order, as
// it appears in the bitstream) into natural row-major order so it lines up
// directly with the natural-order coefficient block the IDCT consumes.
// zigzagOrder[k] gives the natural position that zigzag index k decodes
// to, so the zigzag-order value at k belongs at that natural position.
func unzigzagQuant(zz quantTable) quantTable {
	var out quantTable
	out.valid = zz.valid
	for k := 0; k < 64; k++ {
		out.values[zigzagOrder[k]] = zz.values[k]
	}
	return out
}

// parseDHT parses one or more (class, id, BITS[1..16], HUFFVAL) tuples.
func (d *decoder) parseDHT() error {
	segEnd, err := d.segmentBounds()
	if err != nil {
		return forwardErr("parseDHT", err)
	}
	p := d.pos + 2
	for p < segEnd {
		tc := d.data[p] >> 4
		th := d.data[p] & 0x0F
		p++
		if th > 3 {
			return newErr(InvalidTableId, "parseDHT", p, "huffman table id %d out of range", th)
		}
		if p+16 > segEnd {
			return newErr(MalformedStream, "parseDHT", p, "truncated DHT bits field")
		}
		var bits [17]int
		total := 0
		for l := 1; l <= 16; l++ {
			bits[l] = int(d.data[p+uint(l)-1])
			total += bits[l]
		}
		p += 16
		if total > 256 {
			return newErr(MalformedStream, "parseDHT", p, "sum of BITS is %d, exceeds 256", total)
		}
		if p+uint(total) > segEnd {
			return newErr(MalformedStream, "parseDHT", p, "truncated HUFFVAL field")
		}
		huffval := make([]uint8, total)
		copy(huffval, d.data[p:p+uint(total)])
		p += uint(total)

		table, err := buildHuffmanTable(bits, huffval)
		if err != nil {
			return forwardErr("parseDHT", err)
		}
		if tc == 0 {
			d.dcTables[th] = table
		} else {
			d.acTables[th] = table
		}
	}
	d.pos = segEnd
	return nil
}

// parseDRI parses the 2-byte restart interval and stashes it for parseSOF
// (or, if SOF has already been seen, updates the current frame directly).
func (d *decoder) parseDRI() error {
	segEnd, err := d.segmentBounds()
	if err != nil {
		return forwardErr("parseDRI", err)
	}
	if segEnd-d.pos != 4 {
		return newErr(MalformedStream, "parseDRI", d.pos, "DRI segment has unexpected length")
	}
	ri, _ := d.readUint16(d.pos + 2)
	if d.frame != nil {
		d.frame.restartInterval = uint(ri)
	} else {
		d.pendingRestartInterval = uint(ri)
	}
	d.pos = segEnd
	return nil
}

// segmentBounds reads the 2-byte big-endian length at d.pos (which
// includes the length field itself) and returns the absolute offset one
// past the segment.
func (d *decoder) segmentBounds() (uint, error) {
	sLen, err := d.readUint16(d.pos)
	if err != nil {
		return 0, err
	}
	if sLen < 2 || d.pos+uint(sLen) > uint(len(d.data)) {
		return 0, newErr(MalformedStream, "segmentBounds", d.pos, "segment length %d out of range", sLen)
	}
	return d.pos + uint(sLen), nil
}

// parseSOF parses a SOF0 (baseline) frame header and computes MCU geometry.
func (d *decoder) parseSOF() error {
	segEnd, err := d.segmentBounds()
	if err != nil {
		return forwardErr("parseSOF", err)
	}
	p := d.pos + 2
	if p+6 > segEnd {
		return newErr(MalformedStream, "parseSOF", p, "truncated SOF header")
	}
	precision := d.data[p]
	if precision != 8 {
		return newErr(UnsupportedFeature, "parseSOF", p, "sample precision %d not supported", precision)
	}
	height := uint16(d.data[p+1])<<8 | uint16(d.data[p+2])
	width := uint16(d.data[p+3])<<8 | uint16(d.data[p+4])
	nComp := int(d.data[p+5])
	if nComp != 1 && nComp != 3 {
		return newErr(UnsupportedFeature, "parseSOF", p, "%d components not supported", nComp)
	}
	p += 6
	if p+uint(nComp)*3 > segEnd {
		return newErr(MalformedStream, "parseSOF", p, "truncated SOF component list")
	}

	fr := &frameHeader{precision: precision, width: width, height: height}
	fr.components = make([]component, nComp)
	for i := 0; i < nComp; i++ {
		fr.components[i] = component{
			id:   d.data[p],
			h:    d.data[p+1] >> 4,
			v:    d.data[p+1] & 0x0F,
			qSel: d.data[p+2],
		}
		if fr.components[i].qSel > 3 {
			return newErr(InvalidTableId, "parseSOF", p+2, "quantization selector out of range")
		}
		p += 3
	}

	var hMax, vMax uint8
	for _, c := range fr.components {
		if c.h > hMax {
			hMax = c.h
		}
		if c.v > vMax {
			vMax = c.v
		}
	}
	fr.hMax, fr.vMax = hMax, vMax
	fr.mcuWidth = uint(hMax) * 8
	fr.mcuHeight = uint(vMax) * 8
	fr.mcusPerLine = ceilDiv(uint(width), fr.mcuWidth)
	fr.mcusPerCol = ceilDiv(uint(height), fr.mcuHeight)

	for i := range fr.components {
		c := &fr.components[i]
		c.blocksPerLine = fr.mcusPerLine * uint(c.h)
		c.blocksPerCol = fr.mcusPerCol * uint(c.v)
		c.stride = c.blocksPerLine * 8
		c.plane = make([]uint8, c.blocksPerCol*8*c.stride)
	}

	if d.pendingRestartInterval != 0 {
		fr.restartInterval = d.pendingRestartInterval
	}
	d.frame = fr
	d.pos = segEnd
	return nil
}

func ceilDiv(a, b uint) uint {
	return (a + b - 1) / b
}

// scanInfo lists the SOS header's component ids in SOS component order
// (which matches SOF component order for this spec's single-scan scope).
// The table selectors themselves are stored on the frame's components.
type scanInfo struct {
	components []uint8 // component ids in scan order
}

// parseSOS parses the scan header, resolves each scan component's table
// selectors against the frame's component list, and returns the byte
// offset of the entropy-coded data that immediately follows.
func (d *decoder) parseSOS() (uint, error) {
	if d.frame == nil {
		return 0, newErr(MalformedStream, "parseSOS", d.pos, "SOS before SOF")
	}
	segEnd, err := d.segmentBounds()
	if err != nil {
		return 0, forwardErr("parseSOS", err)
	}
	p := d.pos + 2
	if p >= segEnd {
		return 0, newErr(MalformedStream, "parseSOS", p, "truncated SOS header")
	}
	ns := int(d.data[p])
	p++
	if ns != len(d.frame.components) {
		return 0, newErr(UnsupportedFeature, "parseSOS", p, "multi-scan / partial-scan files not supported")
	}
	if p+uint(ns)*2+3 > segEnd {
		return 0, newErr(MalformedStream, "parseSOS", p, "truncated SOS component list")
	}
	// Component i's table selectors apply to frame component i directly: no
	// lookup by id is performed, only positional validation (spec 4.5).
	for i := 0; i < ns; i++ {
		cid := d.data[p]
		dc := d.data[p+1] >> 4
		ac := d.data[p+1] & 0x0F
		p += 2
		if cid != d.frame.components[i].id {
			return 0, newErr(MalformedStream, "parseSOS", p,
				"SOS component %d has id %d, expected %d", i, cid, d.frame.components[i].id)
		}
		if dc > 3 || ac > 3 {
			return 0, newErr(InvalidTableId, "parseSOS", p, "entropy table selector out of range")
		}
		d.frame.components[i].dcSel = dc
		d.frame.components[i].acSel = ac
	}
	// 3 bytes of spectral-selection / successive-approximation parameters,
	// unused in baseline mode, per spec 4.5.
	p += 3
	if p != segEnd {
		return 0, newErr(MalformedStream, "parseSOS", p, "SOS segment length mismatch")
	}
	for _, c := range d.frame.components {
		if d.dcTables[c.dcSel] == nil || !d.dcTables[c.dcSel].valid {
			return 0, newErr(InvalidTableId, "parseSOS", p, "DC table %d not populated", c.dcSel)
		}
		if d.acTables[c.acSel] == nil || !d.acTables[c.acSel].valid {
			return 0, newErr(InvalidTableId, "parseSOS", p, "AC table %d not populated", c.acSel)
		}
	}
	return segEnd, nil
}
