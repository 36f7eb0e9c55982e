package jpeg

// End-to-end fixtures for the S1-S6 scenarios promised by SPEC_FULL.md's
// test-tooling section: hand-assembled baseline JPEG byte slices (no
// external encoder dependency), one per scenario. Each fixture's entropy
// segment was derived offline from the JPEG standard's forward DCT and
// canonical Huffman assignment, then cross-checked against this package's
// own inverseDCT8 arithmetic before being transcribed here.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: 8x8 RGB 4:4:4, single MCU, quality-100-equivalent (unit quant table,
// DC-only blocks) encoding the constant color (128,64,200).
var s1SolidColorJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x11, 0x08, 0x00, 0x08, 0x00, 0x08,
	0x03, 0x01, 0x11, 0x00, 0x02, 0x11, 0x00, 0x03, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x16, 0x00, 0x01,
	0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08,
	0x09, 0x0A, 0xFF, 0xC4, 0x00, 0x14, 0x10, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xDA, 0x00, 0x0C, 0x03, 0x01, 0x00, 0x02,
	0x00, 0x03, 0x00, 0x00, 0x3F, 0x00, 0x09, 0xAE, 0x41, 0x50, 0xFF, 0xD9,
}

func TestScenarioS1SolidColor(t *testing.T) {
	img, err := Decode(s1SolidColorJPEG, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
	assert.Equal(t, 8, img.Height)
	assert.Equal(t, 3, img.Channels)
	require.Len(t, img.Pixels, 192)

	want := [3]int{128, 64, 200}
	for i := 0; i < 64; i++ {
		for ch := 0; ch < 3; ch++ {
			got := int(img.Pixels[i*3+ch])
			assert.InDelta(t, want[ch], got, 2, "pixel %d channel %d", i, ch)
		}
	}
}

// S2: 16x8 grayscale baseline JPEG, two blocks encoding a horizontal ramp
// 0,16,32,...,240 via a real forward DCT (not a flat DC-only trick), so
// the AC decode path is genuinely exercised.
var s2GradientJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x08, 0x00, 0x10,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x15, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0A, 0x0B, 0xFF, 0xC4, 0x00, 0x18, 0x10,
	0x01, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x09, 0x45, 0x84, 0xC2, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00, 0x37,
	0xF1, 0xB7, 0x43, 0x9B, 0xAC, 0x00, 0x8D, 0xBA, 0x1C, 0xDD, 0x7F, 0xFF, 0xD9,
}

func TestScenarioS2GrayscaleGradient(t *testing.T) {
	img, err := Decode(s2GradientJPEG, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 8, img.Height)
	assert.Equal(t, 1, img.Channels)
	require.Len(t, img.Pixels, 128)

	for row := 0; row < 8; row++ {
		for col := 0; col < 16; col++ {
			want := col * 16
			got := int(img.Pixels[row*16+col])
			assert.InDelta(t, want, got, 3, "row %d col %d", row, col)
		}
	}
}

// S3: 16x16 YCbCr 4:2:0 JPEG. Cb is constant 64, Cr is constant 192, and Y
// alternates full-scale (0/255) across the four 8x8 quadrants of the
// single MCU, exercising subsampled chroma together with fancy upsampling.
var s3CheckerJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x11, 0x08, 0x00, 0x10, 0x00, 0x10,
	0x03, 0x01, 0x22, 0x00, 0x02, 0x11, 0x00, 0x03, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x16, 0x00, 0x01,
	0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09,
	0x0A, 0x0B, 0xFF, 0xC4, 0x00, 0x14, 0x10, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xDA, 0x00, 0x0C, 0x03, 0x01, 0x00, 0x02,
	0x00, 0x03, 0x00, 0x00, 0x3F, 0x00, 0xDF, 0xDB, 0xFF, 0x00, 0x0C, 0x03, 0xBF, 0xF0, 0x9F, 0xB3,
	0xF8, 0xFF, 0xD9,
}

func TestScenarioS3ChromaSubsampledChecker(t *testing.T) {
	img, err := Decode(s3CheckerJPEG, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Width)
	assert.Equal(t, 16, img.Height)
	assert.Equal(t, 3, img.Channels)

	at := func(row, col, ch int) int { return int(img.Pixels[(row*16+col)*3+ch]) }

	// Interior samples, away from any chroma-upsampling blending at block
	// boundaries: top-left quadrant (Y=0) versus bottom-right (Y=255). For
	// this fixture's Cb/Cr pair green has the widest swing (0 to 231: only
	// its Y=0 end clips, from -24), making it the reliable contrast channel;
	// R (90 to 255) and B (0 to 142) lose more of the 255-point swing to
	// clipping.
	tlGreen := at(2, 2, 1)
	brGreen := at(10, 10, 1)
	assert.GreaterOrEqual(t, brGreen-tlGreen, 200)
}

// S4: grayscale, 4 MCUs wide by 2 MCUs tall, restart interval 2: restarts
// fall after MCU1, MCU3 and MCU5 (never after the frame's last MCU). DC
// predictor targets per MCU are 8,24,8,24,8,24,8,24.
var s4RestartJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x10, 0x00, 0x20,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x15, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x05, 0xFF, 0xC4, 0x00, 0x14, 0x10,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0xFF, 0xDD, 0x00, 0x04, 0x00, 0x02, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F,
	0x00, 0x43, 0x07, 0xFF, 0xD0, 0x43, 0x07, 0xFF, 0xD1, 0x43, 0x07, 0xFF, 0xD2, 0x43, 0x07, 0xFF,
	0xD9,
}

// s4NoRestartJPEG carries the same MCU content as s4RestartJPEG (the same
// absolute per-MCU DC targets) but with no DRI segment and no restart
// markers at all, so the DC predictor runs continuously across all 8 MCUs
// instead of resetting every 2.
var s4NoRestartJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x10, 0x00, 0x20,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x15, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x05, 0xFF, 0xC4, 0x00, 0x14, 0x10,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00, 0x43, 0x05, 0xEC, 0x17, 0xB0,
	0x5E, 0xC1, 0xFF, 0xD9,
}

// s4MissingSecondRSTJPEG is s4RestartJPEG with its second RSTn marker (the
// one following MCU3, RST1) deleted outright.
var s4MissingSecondRSTJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x10, 0x00, 0x20,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x15, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x05, 0xFF, 0xC4, 0x00, 0x14, 0x10,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0xFF, 0xDD, 0x00, 0x04, 0x00, 0x02, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F,
	0x00, 0x43, 0x07, 0xFF, 0xD0, 0x43, 0x07, 0x43, 0x07, 0xFF, 0xD2, 0x43, 0x07, 0xFF, 0xD9,
}

func TestScenarioS4RestartInterval(t *testing.T) {
	withRestart, err := Decode(s4RestartJPEG, nil)
	require.NoError(t, err)
	withoutRestart, err := Decode(s4NoRestartJPEG, nil)
	require.NoError(t, err)
	assert.Equal(t, withoutRestart.Pixels, withRestart.Pixels,
		"restart-interval predictor resets must reproduce the same image as an equivalent unrestarted encoding")

	_, err = Decode(s4MissingSecondRSTJPEG, nil)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, RestartMismatch, de.Kind)
}

// S5: a single block whose canonical Huffman codes were chosen so the
// packed entropy bits land exactly on the byte 0xFF, requiring a stuffed
// 0x00 follower; s5WithoutStuffingJPEG encodes the identical DC
// diff/EOB pair with a different (still valid) code assignment that never
// produces a literal 0xFF byte.
var s5WithStuffingJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x08, 0x00, 0x08,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x15, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x09, 0x06, 0xFF, 0xC4, 0x00, 0x15, 0x10,
	0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00, 0xFF, 0x00, 0xFF, 0xD9,
}

var s5WithoutStuffingJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x43, 0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x08, 0x00, 0x08,
	0x01, 0x01, 0x11, 0x00, 0xFF, 0xC4, 0x00, 0x14, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0xFF, 0xC4, 0x00, 0x14, 0x10, 0x01,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00, 0x7E, 0xFF, 0xD9,
}

func TestScenarioS5ByteStuffing(t *testing.T) {
	stuffed, err := Decode(s5WithStuffingJPEG, nil)
	require.NoError(t, err)
	plain, err := Decode(s5WithoutStuffingJPEG, nil)
	require.NoError(t, err)
	assert.Equal(t, plain.Pixels, stuffed.Pixels)
}

// S6: a DHT segment whose 16 BITS counts sum past 256 (two length slots
// set to 255 each). The parser must reject it without reading a HUFFVAL
// region past the segment's declared length (there isn't one here).
var s6MalformedDHTJPEG = []byte{
	0xFF, 0xD8, 0xFF, 0xC4, 0x00, 0x13, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF,
}

func TestScenarioS6MalformedDHT(t *testing.T) {
	_, err := Decode(s6MalformedDHTJPEG, nil)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, MalformedStream, de.Kind)
}
