package strokefit_test

import (
	"context"
	"fmt"
	"os"

	"honnef.co/go/strokefit"
)

func ExampleSession() {
	// Trace a line one unit above the ground plane and print it as a Maya
	// curve command.
	ground := strokefit.Plane{Point: strokefit.Pt3(0, 0, 0), Normal: strokefit.Vec(0, 0, 1)}
	opts := strokefit.DefaultOptions()
	opts.StartLevel = 1

	s, err := strokefit.NewSession(ground, strokefit.MELEmitter{W: os.Stdout}, opts)
	if err != nil {
		panic(err)
	}

	down := strokefit.Vec(0, 0, -1)
	s.BeginStroke()
	for x := range 3 {
		if err := s.ExtendStroke(strokefit.Pt3(float64(x), 0, 10), down); err != nil {
			panic(err)
		}
	}
	res, err := s.EndStroke(context.Background(), strokefit.Pt3(3, 0, 10), down)
	if err != nil {
		panic(err)
	}
	fmt.Println(len(res.Points), "points,", len(res.Warnings), "warnings")

	// Output:
	// curve -d 1 -p 0 0 1 -p 1 0 1 -p 2 0 1 -p 3 0 1;
	// 4 points, 0 warnings
}

func ExampleFitter() {
	// A feather from 0.5 units above the ground down to the ground.
	ground := strokefit.Plane{Point: strokefit.Pt3(0, 0, 0), Normal: strokefit.Vec(0, 0, 1)}
	opts := strokefit.DefaultOptions()
	opts.Mode = strokefit.FeatherMode
	opts.StartLevel = 0.5
	opts.EndLevel = 0

	var stroke strokefit.Stroke
	for x := range 5 {
		r, err := strokefit.NewRay(strokefit.Pt3(float64(x), 0, 10), strokefit.Vec(0, 0, -1))
		if err != nil {
			panic(err)
		}
		stroke = append(stroke, r)
	}

	f, err := strokefit.NewFitter(ground, stroke, opts)
	if err != nil {
		panic(err)
	}
	if err := f.Initialize(context.Background()); err != nil {
		panic(err)
	}
	for {
		done, err := f.Step()
		if err != nil {
			panic(err)
		}
		if done {
			break
		}
	}
	res, err := f.Result()
	if err != nil {
		panic(err)
	}
	for _, p := range res.Points {
		fmt.Printf("%.3f\n", p.Z)
	}

	// Output:
	// 0.500
	// 0.375
	// 0.250
	// 0.125
	// 0.000
}
