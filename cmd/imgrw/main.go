package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/esimov/imgrw"
	"github.com/esimov/imgrw/utils"
	"github.com/joho/godotenv"
)

const HelpBanner = `
┬┌┬┐┌─┐┬─┐┬ ┬
││││├─┐├┬┘│││
┴┴ ┴└─┘┴└─└┴┘

Image reading and writing tool.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

func main() {
	log.SetFlags(0)

	// A missing .env file is not an error, the flags fall back to the built in defaults.
	_ = godotenv.Load()

	var (
		source      = flag.String("in", pipeName, "Source")
		destination = flag.String("out", pipeName, "Destination")
		format      = flag.String("format", envString("IMGRW_FORMAT", "png"), "Output format: png|jpg|gif|tiff|bmp|pdf|heic|svg")
		scale       = flag.Float64("scale", envFloat("IMGRW_SCALE", 1), "Pixels per point (1 = 72 DPI)")
		quality     = flag.Float64("quality", envFloat("IMGRW_QUALITY", -1), "Compression quality in [0, 1], negative for the encoder default")
		fill        = flag.String("fill", envString("IMGRW_FILL", "fit"), "SVG fill style: fit|fill|stretch")
		width       = flag.Float64("width", 0, "Canvas width (SVG) or page width in points (PDF)")
		height      = flag.Float64("height", 0, "Canvas height (SVG) or page height in points (PDF)")
		embed       = flag.String("embed", "png", "Raster format embedded in SVG documents: png|jpg|gif|tiff")
		title       = flag.String("title", "", "SVG document title")
		clip        = flag.Bool("clip", false, "Clip the SVG content to the canvas")
		minify      = flag.Bool("minify", false, "Minify the SVG output")
		workers     = flag.Int("conc", envInt("IMGRW_WORKERS", runtime.NumCPU()), "Number of files to process concurrently")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	size := imgrw.Size{Width: *width, Height: *height}
	proc := &imgrw.Processor{}

	f, err := imgrw.ParseFormat(*format)
	if err != nil {
		fatal(err)
	}
	if f == imgrw.FormatSVG {
		fs, err := imgrw.ParseFillStyle(*fill)
		if err != nil {
			fatal(err)
		}
		ef, err := imgrw.ParseEmbeddedFormat(*embed, *scale, *quality)
		if err != nil {
			fatal(err)
		}
		opts := &imgrw.SVGOptions{
			Fill:         fs,
			Format:       ef,
			Title:        *title,
			ClipToCanvas: *clip,
			Minify:       *minify,
		}
		if *width != 0 || *height != 0 {
			opts.Size = &size
		}
		proc.SVG = opts
	} else {
		t, err := imgrw.ParseExportType(*format, *scale, *quality, size)
		if err != nil {
			fatal(err)
		}
		proc.Type = t
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ IMGRW", utils.StatusMessage),
		utils.DecorateText("is converting the image...", utils.DefaultMessage))
	proc.Spinner = utils.NewSpinner(spinnerText, time.Millisecond*200)

	op := &imgrw.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	}
	if err := proc.Execute(op); err != nil {
		os.Exit(1)
	}
}

func fatal(err error) {
	flag.Usage()
	log.Fatal(fmt.Sprintf("%s%s",
		utils.DecorateText("\n"+err.Error(), utils.ErrorMessage),
		utils.DefaultColor,
	))
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
