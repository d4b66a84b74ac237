package texfill

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/gogpu/texfill/canvas"
)

const tol = 1e-9

func TestComputeFitDefault(t *testing.T) {
	fit, err := ComputeFit(100, 50, 2, nil)
	if err != nil {
		t.Fatalf("ComputeFit: %v", err)
	}
	if fit.DrawW != 100 || fit.DrawH != 50 {
		t.Errorf("draw = %vx%v, want 100x50", fit.DrawW, fit.DrawH)
	}
	if len(fit.Ops) != 1 || fit.Ops[0] != (Op{Kind: OpTranslate}) {
		t.Errorf("Ops = %+v, want a single zero translate", fit.Ops)
	}
}

func TestComputeFitCovers(t *testing.T) {
	tests := []struct {
		w, h, ratio float64
	}{
		{100, 50, 2},
		{100, 50, 1},
		{100, 50, 4},
		{50, 100, 0.25},
		{37, 91, 1.618},
		{1, 1000, 1000},
	}
	for _, tt := range tests {
		fit, err := ComputeFit(tt.w, tt.h, tt.ratio, nil)
		if err != nil {
			t.Fatalf("ComputeFit(%v, %v, %v): %v", tt.w, tt.h, tt.ratio, err)
		}
		if fit.DrawW < tt.w-tol || fit.DrawH < tt.h-tol {
			t.Errorf("ComputeFit(%v, %v, %v) = %vx%v does not cover", tt.w, tt.h, tt.ratio, fit.DrawW, fit.DrawH)
		}
		if got := fit.DrawW / fit.DrawH; math.Abs(got-tt.ratio) > 1e-6 {
			t.Errorf("aspect ratio = %v, want %v", got, tt.ratio)
		}
		// one side matches the box exactly
		if math.Abs(fit.DrawW-tt.w) > tol && math.Abs(fit.DrawH-tt.h) > tol {
			t.Errorf("ComputeFit(%v, %v, %v) = %vx%v is larger than needed", tt.w, tt.h, tt.ratio, fit.DrawW, fit.DrawH)
		}
	}
}

func TestComputeFitSettings(t *testing.T) {
	tests := []struct {
		name         string
		s            Settings
		drawW, drawH float64
		offX, offY   float64
	}{
		{"text width", Settings{TextWidth: 80}, 80, 40, 0, 0},
		{"text width and height", Settings{TextWidth: 80, TextHeight: 60}, 120, 60, 0, 0},
		{"text height alone ignored", Settings{TextHeight: 500}, 100, 50, 0, 0},
		{"sync ratio", Settings{SyncRatio: true, Scaling: 2, ScalingX: 5}, 200, 100, 0, 0},
		{"independent scaling", Settings{ScalingX: 2, ScalingY: 3, Scaling: 7}, 200, 150, 0, 0},
		{"offsets", Settings{OffsetLeft: 5, OffsetTop: 4}, 100, 50, -5, -4},
		{"positions", Settings{LeftPosition: 2, TopPosition: 3}, 100, 50, 2, -3},
		{"offsets and positions", Settings{OffsetLeft: 5, LeftPosition: 2, OffsetTop: 4, TopPosition: 3}, 100, 50, -3, -7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := ComputeFit(100, 50, 2, &tt.s)
			if err != nil {
				t.Fatalf("ComputeFit: %v", err)
			}
			if math.Abs(fit.DrawW-tt.drawW) > tol || math.Abs(fit.DrawH-tt.drawH) > tol {
				t.Errorf("draw = %vx%v, want %vx%v", fit.DrawW, fit.DrawH, tt.drawW, tt.drawH)
			}
			if fit.OffsetX != tt.offX || fit.OffsetY != tt.offY {
				t.Errorf("offset = (%v, %v), want (%v, %v)", fit.OffsetX, fit.OffsetY, tt.offX, tt.offY)
			}
			if fit.Ops[0] != (Op{Kind: OpTranslate, X: tt.offX, Y: tt.offY}) {
				t.Errorf("first op = %+v", fit.Ops[0])
			}
		})
	}
}

func TestComputeFitOpOrder(t *testing.T) {
	s := Settings{HorizontalFlip: true, VerticalFlip: true, Rotation: 90}
	fit, err := ComputeFit(100, 50, 2, &s)
	if err != nil {
		t.Fatal(err)
	}
	want := []Op{
		{Kind: OpTranslate},
		{Kind: OpTranslate, X: 100},
		{Kind: OpScale, X: -1, Y: 1},
		{Kind: OpTranslate, Y: 50},
		{Kind: OpScale, X: 1, Y: -1},
		{Kind: OpTranslate, X: 50, Y: 25},
		{Kind: OpRotate, Angle: math.Pi / 2},
		{Kind: OpTranslate, X: -50, Y: -25},
	}
	if len(fit.Ops) != len(want) {
		t.Fatalf("len(Ops) = %d, want %d", len(fit.Ops), len(want))
	}
	for i, op := range fit.Ops {
		w := want[i]
		if op.Kind != w.Kind || op.X != w.X || op.Y != w.Y || math.Abs(op.Angle-w.Angle) > tol {
			t.Errorf("Ops[%d] = %+v, want %+v", i, op, w)
		}
	}
}

func TestFitMatrix(t *testing.T) {
	tests := []struct {
		name string
		s    Settings
		in   canvas.Point
		want canvas.Point
	}{
		{"identity", Settings{}, canvas.Pt(10, 10), canvas.Pt(10, 10)},
		{"offset", Settings{OffsetLeft: 5, LeftPosition: 1}, canvas.Pt(0, 0), canvas.Pt(-4, 0)},
		{"hflip", Settings{HorizontalFlip: true}, canvas.Pt(0, 10), canvas.Pt(100, 10)},
		{"vflip", Settings{VerticalFlip: true}, canvas.Pt(10, 0), canvas.Pt(10, 50)},
		{"rotate 180 about center", Settings{Rotation: 180}, canvas.Pt(0, 0), canvas.Pt(100, 50)},
		{"flip then offset", Settings{HorizontalFlip: true, OffsetTop: 3}, canvas.Pt(100, 0), canvas.Pt(0, -3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit, err := ComputeFit(100, 50, 2, &tt.s)
			if err != nil {
				t.Fatal(err)
			}
			got := fit.Matrix().TransformPoint(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-6 || math.Abs(got.Y-tt.want.Y) > 1e-6 {
				t.Errorf("Matrix maps %v to %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestComputeFitDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		w, h, ratio float64
		s           *Settings
	}{
		{"zero width", 0, 10, 1, nil},
		{"zero height", 10, 0, 1, nil},
		{"negative height", 10, -5, 1, nil},
		{"zero ratio", 10, 10, 0, nil},
		{"NaN ratio", 10, 10, math.NaN(), nil},
		{"infinite ratio", 10, 10, math.Inf(1), nil},
		{"NaN width", math.NaN(), 10, 1, nil},
		{"negative scaling", 10, 10, 1, &Settings{ScalingX: -1}},
		{"negative text width", 10, 10, 1, &Settings{TextWidth: -20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeFit(tt.w, tt.h, tt.ratio, tt.s)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("ComputeFit() error = %v, want ErrDegenerateGeometry", err)
			}
		})
	}
}

func TestComputeFitIsPure(t *testing.T) {
	s := Settings{ScalingX: 1.25, HorizontalFlip: true, Rotation: 33}
	before := s
	a, errA := ComputeFit(64, 48, 1.5, &s)
	b, errB := ComputeFit(64, 48, 1.5, &s)
	if errA != nil || errB != nil {
		t.Fatal(errA, errB)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("ComputeFit is not deterministic")
	}
	if s != before {
		t.Error("ComputeFit mutated its settings")
	}
}
