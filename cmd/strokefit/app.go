package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"honnef.co/go/strokefit"
	"honnef.co/go/strokefit/preview"
	"honnef.co/go/strokefit/recording"
	"honnef.co/go/strokefit/setting"
)

const previewSize = 512

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Load settings from `FILE`",
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "strokefit",
		Usage:     "Fit strokes drawn over a surface to curves",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			newFitCommand(),
			newConfigCommand(),
		},
	}
}

func newFitCommand() *cli.Command {
	return &cli.Command{
		Name:      "fit",
		Usage:     "Fit a recorded stroke",
		ArgsUsage: "RECORDING",
		Description: `Replays the stroke in RECORDING against its surface and writes the
fitted curve. Settings are taken from --config, then from the
recording, then from the mode and level flags. Without an output flag
the curve is written to standard output as a MEL command.`,
		Action: runFit,
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Stroke mode: level, fur or feather",
			},
			&cli.Float64Flag{
				Name:  "start-level",
				Usage: "Offset of the first point, or of every point in level mode",
			},
			&cli.Float64Flag{
				Name:  "end-level",
				Usage: "Offset of the last point in fur and feather mode",
			},
			&cli.StringFlag{
				Name:  "mel",
				Usage: "Write a MEL curve command to `FILE` (- for standard output)",
			},
			&cli.StringFlag{
				Name:  "obj",
				Usage: "Write an OBJ polyline to `FILE`",
			},
			&cli.StringFlag{
				Name:  "png",
				Usage: "Write a preview image to `FILE`",
			},
			&cli.StringFlag{
				Name:  "projection",
				Value: "xy",
				Usage: "Plane of the preview image: xy, xz or yz",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log the progress of the fit",
			},
		},
	}
}

func newConfigCommand() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Print the effective settings",
		Action: runConfig,
		Flags: []cli.Flag{
			configFlag(),
		},
	}
}

func loadOptions(c *cli.Context) (strokefit.Options, error) {
	opts := strokefit.DefaultOptions()
	if path := c.String("config"); path != "" {
		return setting.LoadOptions(path, opts)
	}
	return opts, nil
}

func runConfig(c *cli.Context) error {
	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	_, err = setting.FromOptions(opts).WriteTo(c.App.Writer)
	return err
}

// outputs owns the emitters of a fit and the files they write to.
type outputs struct {
	emitters strokefit.MultiEmitter
	files    []*os.File
	preview  *preview.Emitter
	png      string
}

func (o *outputs) create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	o.files = append(o.files, f)
	return f, nil
}

func (o *outputs) close() error {
	var errs []error
	for _, f := range o.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func openOutputs(c *cli.Context) (*outputs, error) {
	o := &outputs{}
	mel := c.String("mel")
	if mel == "" && !c.IsSet("obj") && !c.IsSet("png") {
		mel = "-"
	}
	switch mel {
	case "":
	case "-":
		o.emitters = append(o.emitters, strokefit.MELEmitter{W: c.App.Writer})
	default:
		f, err := o.create(mel)
		if err != nil {
			return o, err
		}
		o.emitters = append(o.emitters, strokefit.MELEmitter{W: f})
	}
	if path := c.String("obj"); path != "" {
		f, err := o.create(path)
		if err != nil {
			return o, err
		}
		o.emitters = append(o.emitters, &strokefit.OBJEmitter{W: f})
	}
	if path := c.String("png"); path != "" {
		proj, err := preview.ParseProjection(c.String("projection"))
		if err != nil {
			return o, err
		}
		o.preview = preview.NewEmitter(previewSize, previewSize, proj)
		o.png = path
		o.emitters = append(o.emitters, o.preview)
	}
	return o, nil
}

func (o *outputs) flush() error {
	if o.preview == nil {
		return nil
	}
	f, err := o.create(o.png)
	if err != nil {
		return err
	}
	return o.preview.WritePNG(f)
}

func runFit(c *cli.Context) (err error) {
	if c.NArg() != 1 {
		return fmt.Errorf("fit: expected exactly one recording, got %d arguments", c.NArg())
	}
	path := c.Args().First()
	rec, err := recording.Load(path)
	if err != nil {
		return err
	}

	opts, err := loadOptions(c)
	if err != nil {
		return err
	}
	rec.Apply(&opts)
	if c.IsSet("mode") {
		if opts.Mode, err = strokefit.ParseMode(c.String("mode")); err != nil {
			return err
		}
	}
	if c.IsSet("start-level") {
		opts.StartLevel = c.Float64("start-level")
	}
	if c.IsSet("end-level") {
		opts.EndLevel = c.Float64("end-level")
	}
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	surface, err := rec.Surface(filepath.Dir(path))
	if err != nil {
		return err
	}

	out, err := openOutputs(c)
	defer func() {
		if cerr := out.close(); err == nil {
			err = cerr
		}
	}()
	if err != nil {
		return err
	}

	sess, err := strokefit.NewSession(surface, out.emitters, opts)
	if err != nil {
		return err
	}
	res, err := rec.Replay(c.Context, sess)
	if err != nil {
		return err
	}
	if err := out.flush(); err != nil {
		return err
	}
	opts.Logger.Info("fitted",
		"points", len(res.Points),
		"passes", res.Passes,
		"objective", res.Objective,
		"warnings", len(res.Warnings))
	return nil
}
