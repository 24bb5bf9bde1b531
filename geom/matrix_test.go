package geom

import (
	"math"
	"testing"
)

func TestMatrix_Identity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}

	p := m.Apply(V2(3, 7))
	if !p.Approx(V2(3, 7), 1e-10) {
		t.Errorf("Identity().Apply(3,7) = %v, want (3,7)", p)
	}
}

func TestMatrix_Apply(t *testing.T) {
	tests := []struct {
		name   string
		m      Matrix
		p      Vec2
		expect Vec2
	}{
		{"translate", Translate(10, 20), V2(1, 2), V2(11, 22)},
		{"scale", Scale(2, 3), V2(4, 5), V2(8, 15)},
		{"rotate quarter", Rotate(math.Pi / 2), V2(1, 0), V2(0, 1)},
		{"shear x", Shear(1, 0), V2(2, 3), V2(5, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Apply(tt.p)
			if !got.Approx(tt.expect, 1e-9) {
				t.Errorf("Apply(%v) = %v, want %v", tt.p, got, tt.expect)
			}
		})
	}
}

func TestMatrix_ApplyVector(t *testing.T) {
	m := Translate(100, 200).Multiply(Scale(2, 2))

	// Vectors scale but do not translate.
	v := m.ApplyVector(V2(3, 4))
	if !v.Approx(V2(6, 8), 1e-10) {
		t.Errorf("ApplyVector(3,4) = %v, want (6,8)", v)
	}

	p := m.Apply(V2(3, 4))
	if !p.Approx(V2(106, 208), 1e-10) {
		t.Errorf("Apply(3,4) = %v, want (106,208)", p)
	}
}

func TestMatrix_Multiply(t *testing.T) {
	// Translate then scale vs scale then translate differ.
	ts := Translate(10, 0).Multiply(Scale(2, 2))
	st := Scale(2, 2).Multiply(Translate(10, 0))

	p := V2(1, 1)
	if got := ts.Apply(p); !got.Approx(V2(12, 2), 1e-10) {
		t.Errorf("translate*scale apply = %v, want (12,2)", got)
	}
	if got := st.Apply(p); !got.Approx(V2(22, 2), 1e-10) {
		t.Errorf("scale*translate apply = %v, want (22,2)", got)
	}
}

func TestMatrix_Invert(t *testing.T) {
	m := Translate(5, -3).Multiply(Scale(2, 4)).Multiply(Rotate(0.7))
	inv := m.Invert()

	p := V2(3.5, -1.25)
	back := inv.Apply(m.Apply(p))
	if !back.Approx(p, 1e-9) {
		t.Errorf("Invert roundtrip = %v, want %v", back, p)
	}
}

func TestMatrix_InvertSingular(t *testing.T) {
	singular := Scale(0, 1)
	if got := singular.Invert(); !got.IsIdentity() {
		t.Errorf("Invert() of singular = %v, want identity", got)
	}
}

func TestMatrix_IsTranslation(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want bool
	}{
		{"identity", Identity(), true},
		{"pure translation", Translate(3, 4), true},
		{"scale", Scale(2, 2), false},
		{"rotation", Rotate(0.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.IsTranslation(); got != tt.want {
				t.Errorf("IsTranslation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitRect(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
		wantScale              float64
		wantTx, wantTy         float64
	}{
		{"half scale exact", 800, 600, 400, 300, 0.5, 0, 0},
		{"wide into square", 200, 100, 100, 100, 0.5, 0, 25},
		{"tall into wide", 100, 200, 300, 100, 0.5, 125, 0},
		{"upscale", 10, 10, 40, 20, 2, 10, 0},
		{"identity fit", 64, 64, 64, 64, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := FitRect(tt.srcW, tt.srcH, tt.dstW, tt.dstH)

			// Origin maps to the centering offset.
			o := m.Apply(V2(0, 0))
			if !o.Approx(V2(tt.wantTx, tt.wantTy), 1e-9) {
				t.Errorf("origin maps to %v, want (%v, %v)", o, tt.wantTx, tt.wantTy)
			}

			// The far corner lands inside the destination box.
			c := m.Apply(V2(tt.srcW, tt.srcH))
			wantC := V2(tt.wantTx+tt.srcW*tt.wantScale, tt.wantTy+tt.srcH*tt.wantScale)
			if !c.Approx(wantC, 1e-9) {
				t.Errorf("corner maps to %v, want %v", c, wantC)
			}
			if c.X > tt.dstW+1e-9 || c.Y > tt.dstH+1e-9 {
				t.Errorf("corner %v escapes %vx%v box", c, tt.dstW, tt.dstH)
			}
		})
	}
}

func TestFitRect_Degenerate(t *testing.T) {
	tests := []struct {
		name                   string
		srcW, srcH, dstW, dstH float64
	}{
		{"zero source width", 0, 10, 100, 100},
		{"zero destination", 10, 10, 0, 100},
		{"negative source", -5, 10, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRect(tt.srcW, tt.srcH, tt.dstW, tt.dstH); !got.IsIdentity() {
				t.Errorf("FitRect() = %v, want identity", got)
			}
		})
	}
}
