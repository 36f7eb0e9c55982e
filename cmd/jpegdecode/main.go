// Command jpegdecode decodes a baseline JPEG file and optionally saves it
// as a PPM/PGM raster. It is the CLI collaborator spec 6 describes: out of
// scope as a decoding concern, but given a real, minimal body here so the
// library is runnable end to end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	jpeg "github.com/anttila/bjpeg"
)

var (
	savePPM string
	verbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "jpegdecode <input.jpg>",
		Short: "Decode a baseline sequential JPEG file",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.Flags().StringVar(&savePPM, "save-ppm", "", "write the decoded raster to this PPM/PGM file")
	root.Flags().BoolVar(&verbose, "verbose", false, "trace markers, MCUs and data units while decoding")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	opts := &jpeg.Options{Warn: true, Markers: verbose, Mcu: verbose, Du: verbose}
	img, err := jpeg.Decode(data, opts)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	fmt.Printf("%s: %dx%d, %d channel(s)\n", path, img.Width, img.Height, img.Channels)

	if savePPM != "" {
		if err := writePPM(savePPM, img); err != nil {
			return fmt.Errorf("writing %s: %w", savePPM, err)
		}
	}
	return nil
}

// writePPM emits a P6 (RGB) or P5 (grayscale, one byte per pixel) raster,
// per spec 6's PPM writer collaborator interface.
func writePPM(path string, img *jpeg.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch img.Channels {
	case 3:
		if _, err := fmt.Fprintf(f, "P6\n%d %d\n255\n", img.Width, img.Height); err != nil {
			return err
		}
		_, err = f.Write(img.Pixels)
		return err
	case 1:
		if _, err := fmt.Fprintf(f, "P5\n%d %d\n255\n", img.Width, img.Height); err != nil {
			return err
		}
		_, err = f.Write(img.Pixels)
		return err
	default:
		return fmt.Errorf("unsupported channel count %d", img.Channels)
	}
}
