// Command strokefit fits recorded strokes and writes the resulting curves
// as Maya commands, OBJ polylines or PNG previews.
//
// Usage:
//
//	strokefit fit [--config strokefit.ini] [--mode feather] [--mel out.mel] stroke.yaml
//	strokefit config [--config strokefit.ini]
package main

import (
	"fmt"
	"os"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "strokefit: %v\n", err)
		os.Exit(1)
	}
}
