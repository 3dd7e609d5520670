/*
Package imgrw reads and writes raster images. A decoded image is held as a Bitmap,
which can be exported to PNG, JPEG, GIF, TIFF, BMP or PDF, or wrapped in an SVG
document where the re-encoded raster is placed inside a canvas of arbitrary size.

The package provides a command line interface, supporting various flags for the
conversion. To check the supported commands type:

	$ imgrw --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/esimov/imgrw"
	)

	func main() {
		b, err := imgrw.LoadFile("input.jpg")
		if err != nil {
			fmt.Printf("Error loading the image: %s", err.Error())
			return
		}

		doc, err := imgrw.ComposeSVG(b, &imgrw.SVGOptions{
			Size: &imgrw.Size{Width: 100, Height: 50},
			Fill: imgrw.AspectFill,
		})
		if err != nil {
			fmt.Printf("Error composing the document: %s", err.Error())
			return
		}
		os.WriteFile("output.svg", doc, 0644)
	}
*/
package imgrw
