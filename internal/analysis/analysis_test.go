package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/spring"
)

func TestFFT_PadsToPowerOfTwo(t *testing.T) {
	got := FFT([]float64{1, 1, 1})
	if len(got) != 4 {
		t.Fatalf("expected 4 bins, got %d", len(got))
	}
	if math.Abs(real(got[0])-3) > 1e-12 {
		t.Errorf("expected DC of 3, got %v", got[0])
	}
}

func TestDominantFrequency(t *testing.T) {
	const rate, freq = 256.0, 8.0
	samples := make([]float64, 512)
	for i := range samples {
		samples[i] = 5 + math.Sin(2*math.Pi*freq*float64(i)/rate)
	}

	if got := DominantFrequency(samples, rate); math.Abs(got-freq) > 0.5 {
		t.Errorf("expected %v Hz, got %v", freq, got)
	}
	if DominantFrequency(samples[:3], rate) != 0 {
		t.Error("expected 0 for too few samples")
	}
}

func TestDominantFrequencyOfSpring(t *testing.T) {
	cfg := spring.Config{Tension: 400, Friction: 2}
	const dt = 0.001
	x, v := 1.0, 0.0
	samples := make([]float64, 4096)
	for i := range samples {
		a := -cfg.Tension*x - cfg.Friction*v
		v += a * dt
		x += v * dt
		samples[i] = x
	}

	want := DampedFrequency(cfg)
	got := DominantFrequency(samples, 1/dt)
	if math.Abs(got-want) > 0.5 {
		t.Errorf("expected ringing near %.2f Hz, got %.2f", want, got)
	}
}

func TestDampedFrequency(t *testing.T) {
	if DampedFrequency(spring.Config{Tension: 100, Friction: 20}) != 0 {
		t.Error("critically damped spring should not ring")
	}
	got := DampedFrequency(spring.Config{Tension: 4 * math.Pi * math.Pi})
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1 Hz, got %v", got)
	}
}

func TestPhasePortrait(t *testing.T) {
	result := &dynamo.Result{
		States:   []dynamo.State{{0, 0}, {0.5, 2}, {1.2, 0}, {1, 0}},
		Controls: []dynamo.Control{{1}, {1}, {1}, {1}},
	}
	p := PhasePortrait(result)
	if len(p.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(p.Points))
	}
	if p.Points[0].X != -1 || p.Points[3].X != 0 || p.Points[1].Y != 2 {
		t.Errorf("unexpected points %v", p.Points)
	}

	art := PhasePortraitToASCII(p, 20, 10)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(lines))
	}
	if strings.Count(art, "•") == 0 {
		t.Error("expected plotted samples")
	}
	if !strings.Contains(art, "│") {
		t.Error("expected the velocity axis")
	}
	if PhasePortraitToASCII(&PhasePortrait2D{}, 20, 10) != "" {
		t.Error("expected empty output without points")
	}
}
