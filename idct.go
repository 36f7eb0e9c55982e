package jpeg

// Fixed-point 8x8 inverse DCT with integrated dequantization, per spec 4.4:
// two separable 1-D passes using the ICASSP '89 factorization (11
// multiplications per pass), constants scaled by 2^constBits, with a
// pass1Bits precision gain carried between passes, the level shift and
// rounding folded into the pass-2 bias, and a 1024-byte range-limit table
// doing the final clamp in one indexed load.
//
// This algorithm is written fresh from the numeric description above: the
// teacher (decode.go's inverseDCT8) and original_source/src/dct.c both use
// a float64 algorithm (a different AAN-style factorization and a direct
// cosine summation, respectively), neither of which is the integer
// ICASSP '89 factorization this spec mandates. See DESIGN.md.
const (
	constBits = 13
	pass1Bits = 2

	fix_0_298631336 = 2446
	fix_0_390180644 = 3196
	fix_0_541196100 = 4433
	fix_0_765366865 = 6270
	fix_0_899976223 = 7373
	fix_1_175875602 = 9633
	fix_1_501321110 = 12299
	fix_1_847759065 = 15137
	fix_1_961570560 = 16069
	fix_2_053119869 = 16819
	fix_2_562915447 = 20995
	fix_3_072711026 = 25172
)

// rangeLimit maps x+384 (x in [-384, 639]) to a clamped uint8, implementing
// spec 4.4's "[0..383]->0, [384..639]->x-384, [640..1023]->255" table.
var rangeLimit [1024]uint8

func init() {
	for i := 0; i < 1024; i++ {
		switch {
		case i < 384:
			rangeLimit[i] = 0
		case i < 640:
			rangeLimit[i] = uint8(i - 384)
		default:
			rangeLimit[i] = 255
		}
	}
}

// descale performs a round-to-nearest arithmetic right shift by n bits.
func descale(x int32, n uint) int32 {
	return (x + (1 << (n - 1))) >> n
}

// limit looks up v+384 in rangeLimit, clamping the index so a value outside
// the table's designed domain still degrades to the nearest clamp result
// instead of wrapping.
func limit(v int32) uint8 {
	idx := v + 384
	if idx < 0 {
		idx = 0
	} else if idx > 1023 {
		idx = 1023
	}
	return rangeLimit[idx]
}

func multiply(a, b int32) int32 { return a * b }

// inverseDCT8 dequantizes and inverse-transforms one 8x8 coefficient block
// (in natural, post-zigzag order) and writes the 64 resulting samples into
// out, which must have room for at least 7*stride+8 bytes (8 rows of 8
// samples each, stride bytes apart — matching the teacher's convention of
// writing directly into a strided component-plane slice rather than a
// tightly packed 8x8 buffer).
func inverseDCT8(block *dataUnit, quant *[64]uint16, out []uint8, stride uint) {
	var ws [64]int32

	// Pass 1: columns.
	for ctr := 0; ctr < 8; ctr++ {
		acZero := true
		for row := 1; row < 8; row++ {
			if block[row*8+ctr] != 0 {
				acZero = false
				break
			}
		}
		if acZero {
			dc := int32(block[ctr]) * int32(quant[ctr])
			dcval := dc << pass1Bits
			for row := 0; row < 8; row++ {
				ws[row*8+ctr] = dcval
			}
			continue
		}

		dq := func(row int) int32 { return int32(block[row*8+ctr]) * int32(quant[row*8+ctr]) }

		z2 := dq(2)
		z3 := dq(6)
		z1 := multiply(z2+z3, fix_0_541196100)
		tmp2 := z1 + multiply(z3, -fix_1_847759065)
		tmp3 := z1 + multiply(z2, fix_0_765366865)

		z2 = dq(0)
		z3 = dq(4)
		tmp0 := (z2 + z3) << constBits
		tmp1 := (z2 - z3) << constBits

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		t0 := dq(7)
		t1 := dq(5)
		t2 := dq(3)
		t3 := dq(1)

		zz1 := t0 + t3
		zz2 := t1 + t2
		zz3 := t0 + t2
		zz4 := t1 + t3
		zz5 := multiply(zz3+zz4, fix_1_175875602)

		t0 = multiply(t0, fix_0_298631336)
		t1 = multiply(t1, fix_2_053119869)
		t2 = multiply(t2, fix_3_072711026)
		t3 = multiply(t3, fix_1_501321110)
		zz1 = multiply(zz1, -fix_0_899976223)
		zz2 = multiply(zz2, -fix_2_562915447)
		zz3 = multiply(zz3, -fix_1_961570560)
		zz4 = multiply(zz4, -fix_0_390180644)

		zz3 += zz5
		zz4 += zz5

		t0 += zz1 + zz3
		t1 += zz2 + zz4
		t2 += zz2 + zz3
		t3 += zz1 + zz4

		ws[0*8+ctr] = descale(tmp10+t3, constBits-pass1Bits)
		ws[7*8+ctr] = descale(tmp10-t3, constBits-pass1Bits)
		ws[1*8+ctr] = descale(tmp11+t2, constBits-pass1Bits)
		ws[6*8+ctr] = descale(tmp11-t2, constBits-pass1Bits)
		ws[2*8+ctr] = descale(tmp12+t1, constBits-pass1Bits)
		ws[5*8+ctr] = descale(tmp12-t1, constBits-pass1Bits)
		ws[3*8+ctr] = descale(tmp13+t0, constBits-pass1Bits)
		ws[4*8+ctr] = descale(tmp13-t0, constBits-pass1Bits)
	}

	// Pass 2: rows, with level shift (+128) and rounding folded into the
	// additive bias at whichever final shift applies. The short-circuit
	// path works directly off ws[base] with a shift of pass1Bits+3 (the
	// scale ws already carries out of pass 1); the general butterfly path
	// shifts by constBits+pass1Bits+3, so its bias is scaled up by
	// constBits to match.
	const shortShift = pass1Bits + 3
	const shortBias = int32(128<<shortShift) + int32(1<<(shortShift-1))
	const finalShift = constBits + pass1Bits + 3
	const finalBias = int32(128<<finalShift) + int32(1<<(finalShift-1))

	row := out
	for r := 0; r < 8; r++ {
		base := r * 8

		acZero := true
		for c := 1; c < 8; c++ {
			if ws[base+c] != 0 {
				acZero = false
				break
			}
		}
		if acZero {
			v := (ws[base] + shortBias) >> shortShift
			sample := limit(v)
			for c := 0; c < 8; c++ {
				row[c] = sample
			}
			if uint(len(row)) > stride {
				row = row[stride:]
			}
			continue
		}

		z2 := ws[base+2]
		z3 := ws[base+6]
		z1 := multiply(z2+z3, fix_0_541196100)
		tmp2 := z1 + multiply(z3, -fix_1_847759065)
		tmp3 := z1 + multiply(z2, fix_0_765366865)

		tmp0 := ((ws[base+0]+ws[base+4])<<constBits) + finalBias
		tmp1 := ((ws[base+0]-ws[base+4])<<constBits) + finalBias

		tmp10 := tmp0 + tmp3
		tmp13 := tmp0 - tmp3
		tmp11 := tmp1 + tmp2
		tmp12 := tmp1 - tmp2

		t0 := ws[base+7]
		t1 := ws[base+5]
		t2 := ws[base+3]
		t3 := ws[base+1]

		zz1 := t0 + t3
		zz2 := t1 + t2
		zz3 := t0 + t2
		zz4 := t1 + t3
		zz5 := multiply(zz3+zz4, fix_1_175875602)

		t0 = multiply(t0, fix_0_298631336)
		t1 = multiply(t1, fix_2_053119869)
		t2 = multiply(t2, fix_3_072711026)
		t3 = multiply(t3, fix_1_501321110)
		zz1 = multiply(zz1, -fix_0_899976223)
		zz2 = multiply(zz2, -fix_2_562915447)
		zz3 = multiply(zz3, -fix_1_961570560)
		zz4 = multiply(zz4, -fix_0_390180644)

		zz3 += zz5
		zz4 += zz5

		t0 += zz1 + zz3
		t1 += zz2 + zz4
		t2 += zz2 + zz3
		t3 += zz1 + zz4

		put := func(i int, v int32) { row[i] = limit(v >> finalShift) }

		put(0, tmp10+t3)
		put(7, tmp10-t3)
		put(1, tmp11+t2)
		put(6, tmp11-t2)
		put(2, tmp12+t1)
		put(5, tmp12-t1)
		put(3, tmp13+t0)
		put(4, tmp13-t0)

		if uint(len(row)) > stride {
			row = row[stride:]
		}
	}
}
