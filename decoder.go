package jpeg

// Image is the decoder's output: a row-major pixel buffer, 1 byte per
// sample, with either 1 (grayscale) or 3 (interleaved RGB) channels.
type Image struct {
	Width    int
	Height   int
	Channels int
	Pixels   []uint8
}

// Decode parses and renders a baseline sequential JPEG/JFIF byte buffer,
// driving parse -> scan decode -> color conversion in sequence and
// returning the resulting raster. opts may be nil, in which case decoding
// proceeds silently (no trace output). This is the decoder façade: it owns
// every allocation made during the decode and releases the component
// planes (by letting them become unreachable) as soon as renderImage has
// produced the output raster.
//
// Grounded on the teacher's Desc/Parse/MakeFrameRawPicture/SaveRawPicture
// call chain (jpeg.go), collapsed into the single entry point this spec's
// narrower external interface calls for (the teacher exposes parsing and
// rendering as separate calls to support its broader metadata/thumbnail
// feature set, which is out of this spec's scope).
func Decode(data []byte, opts *Options) (*Image, error) {
	d := newDecoder(data, opts)

	scanStart, err := d.parse()
	if err != nil {
		return nil, forwardErr("Decode", err)
	}
	if d.frame == nil {
		return nil, newErr(MalformedStream, "Decode", d.pos, "no frame header found")
	}

	if err := d.decodeScan(scanStart); err != nil {
		return nil, forwardErr("Decode", err)
	}

	img, err := d.renderImage()
	if err != nil {
		return nil, forwardErr("Decode", err)
	}
	return img, nil
}
