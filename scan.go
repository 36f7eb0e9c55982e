package jpeg

// zigzagOrder maps a decode index k in [0,63] to its natural (row-major)
// position within an 8x8 block. Standard JPEG zigzag permutation, same
// table the teacher keeps as zigZagRowCol in jpeg.go (restated here as a
// flat 64-entry array since the scan decoder indexes it by k, not by
// row/col).
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// decodeScan consumes the entropy-coded segment starting at scanStart into
// each component's plane, handling restart intervals. Grounded on
// original_source/src/decoder.c's decode_mcu/decode_block control flow,
// with restart bookkeeping informed by the teacher's analyse.go
// processECS (dUAnchor/dUCol/dURow-style accounting, here expressed as
// plain MCU row/col loops since this spec's single-scan scope does not
// need the teacher's incremental/resumable parsing model).
func (d *decoder) decodeScan(scanStart uint) error {
	fr := d.frame
	r := newBitReader(d.data[scanStart:])

	for i := range fr.components {
		fr.components[i].predictor = 0
	}

	mcusSinceRestart := uint(0)
	mcuIndex := uint(0)
	restartSeq := uint8(0)

	for mcuRow := uint(0); mcuRow < fr.mcusPerCol; mcuRow++ {
		for mcuCol := uint(0); mcuCol < fr.mcusPerLine; mcuCol++ {
			for ci := range fr.components {
				c := &fr.components[ci]
				dcTable := d.dcTables[c.dcSel]
				acTable := d.acTables[c.acSel]
				for v := uint8(0); v < c.v; v++ {
					for h := uint8(0); h < c.h; h++ {
						var block dataUnit
						if err := decodeBlock(r, dcTable, acTable, c, &block); err != nil {
							return forwardErr("decodeScan", err)
						}
						col := (mcuCol*uint(c.h) + uint(h)) * 8
						row := (mcuRow*uint(c.v) + uint(v)) * 8
						out := c.plane[row*c.stride+col:]
						inverseDCT8(&block, &d.qtables[c.qSel].values, out, c.stride)

						if d.opts.duOn() {
							d.log.Debug().Uint("mcu", mcuIndex).Int("component", ci).
								Uint8("h", h).Uint8("v", v).Msg("data unit")
						}
					}
				}
			}

			if d.opts.mcuOn() {
				d.log.Debug().Uint("mcu", mcuIndex).Msg("mcu")
			}
			mcuIndex++
			mcusSinceRestart++

			last := mcuRow == fr.mcusPerCol-1 && mcuCol == fr.mcusPerLine-1
			if fr.restartInterval > 0 && mcusSinceRestart == fr.restartInterval && !last {
				if err := d.consumeRestart(r, restartSeq); err != nil {
					return err
				}
				restartSeq = (restartSeq + 1) % 8
				mcusSinceRestart = 0
			}
		}
	}
	return nil
}

// consumeRestart realigns the bit reader to a byte boundary, validates and
// consumes the expected RSTn marker, and resets every component's DC
// predictor to zero, per spec 4.3's restart handling. A missing marker, a
// marker byte outside RST0..RST7, and a valid RSTn that is not the one
// expected next in the RST0..RST7 rotation are all a RestartMismatch.
func (d *decoder) consumeRestart(r *bitReader, expected uint8) error {
	r.alignToByte()
	marker, ok := r.peekMarker()
	if !ok || marker < mRST0 || marker > mRST7 {
		return newErr(RestartMismatch, "consumeRestart", r.pos, "expected RSTn marker not found")
	}
	if got := marker - mRST0; got != expected {
		return newErr(RestartMismatch, "consumeRestart", r.pos,
			"restart marker RST%d out of sequence, expected RST%d", got, expected)
	}
	r.consumeMarker()
	for i := range d.frame.components {
		d.frame.components[i].predictor = 0
	}
	return nil
}

// decodeBlock decodes one 8x8 coefficient block: the DC differential
// (added to and replacing the component's predictor) followed by the AC
// run-length sequence, written into block in natural order via zigzagOrder.
func decodeBlock(r *bitReader, dcTable, acTable *huffmanTable, c *component, block *dataUnit) error {
	s, err := dcTable.decode(r)
	if err != nil {
		return err
	}
	diff := 0
	if s > 0 {
		if s > 16 {
			return newErr(MalformedStream, "decodeBlock", r.pos, "DC magnitude size %d out of range", s)
		}
		diff, err = receiveExtend(r, uint(s))
		if err != nil {
			return err
		}
	}
	c.predictor += int16(diff)
	block[0] = c.predictor

	k := 1
	for k < 64 {
		rs, err := acTable.decode(r)
		if err != nil {
			return err
		}
		run := int(rs >> 4)
		size := rs & 0x0F

		if rs == 0x00 { // EOB
			break
		}
		if rs == 0xF0 { // ZRL
			k += 16
			continue
		}
		k += run
		if k >= 64 {
			return newErr(EntropyOverflow, "decodeBlock", r.pos, "AC index %d exceeds 63", k)
		}
		val, err := receiveExtend(r, uint(size))
		if err != nil {
			return err
		}
		block[zigzagOrder[k]] = int16(val)
		k++
	}
	return nil
}
