package jpeg

// dataUnit is an 8x8 array of signed coefficients in natural (row-major)
// order, matching the teacher's own dataUnit type (jpeg.go).
type dataUnit [64]int16

// quantTable is one DQT slot: 64 values in natural order (already
// un-zigzagged at parse time), addressed by a 2-bit id.
type quantTable struct {
	values [64]uint16
	valid  bool
}

// component describes one SOF component and accumulates the state the
// scan decoder needs to place and predict its blocks.
type component struct {
	id   uint8
	h, v uint8 // sampling factors, 1..4
	qSel uint8

	dcSel, acSel uint8 // set by SOS

	blocksPerLine uint // component plane width in 8x8 blocks
	blocksPerCol  uint // component plane height in 8x8 blocks
	stride        uint // plane row stride in samples (blocksPerLine*8)

	plane []uint8 // blocksPerCol*8 rows of stride samples each

	predictor int16 // DC predictor, reset at scan start and at each restart
}

// frameHeader is the result of parsing SOF0: sample geometry, MCU layout
// and the per-component descriptors above.
type frameHeader struct {
	precision  uint8
	width      uint16
	height     uint16
	components []component

	hMax, vMax uint8
	mcuWidth   uint // pixels, 8*hMax
	mcuHeight  uint // pixels, 8*vMax
	mcusPerLine uint
	mcusPerCol  uint

	restartInterval uint
}
