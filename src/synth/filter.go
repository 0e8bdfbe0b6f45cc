package synth

import "math"

// ----- Biquad ----- //

type biquad struct {
	a    []float64 // feedforward
	b    []float64 // feedback
	past []float64
}

func newBiquad(a []float64, b []float64) *biquad {
	return &biquad{
		a:    a,
		b:    b,
		past: make([]float64, int(math.Max(float64(len(a)-1), float64(len(b))))),
	}
}

func (f *biquad) setCoefficients(a []float64, b []float64) {
	f.a = a
	f.b = b
}

func (f *biquad) step(in float64) float64 {
	// apply b
	for j := 0; j < len(f.b); j++ {
		in -= f.past[j] * f.b[j]
	}
	// apply a
	o := in * f.a[0]
	for j := 1; j < len(f.a); j++ {
		o += f.past[j-1] * f.a[j]
	}
	// unshift past
	for j := len(f.past) - 2; j >= 0; j-- {
		f.past[j+1] = f.past[j]
	}
	if len(f.past) > 0 {
		f.past[0] = in
	}
	return o
}

func makeBiquadHighShelfH(fc float64, q float64, dBgain float64) ([]float64, []float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	A := math.Pow(10, dBgain/40)
	b0 := A * ((A + 1) + (A-1)*math.Cos(w0) + 2*math.Sqrt(A)*alpha)
	b1 := -2 * A * ((A - 1) + (A+1)*math.Cos(w0))
	b2 := A * ((A + 1) + (A-1)*math.Cos(w0) - 2*math.Sqrt(A)*alpha)
	a0 := (A + 1) - (A-1)*math.Cos(w0) + 2*math.Sqrt(A)*alpha
	a1 := 2 * ((A - 1) - (A+1)*math.Cos(w0))
	a2 := (A + 1) - (A-1)*math.Cos(w0) - 2*math.Sqrt(A)*alpha
	return []float64{b0 / a0, b1 / a0, b2 / a0}, []float64{a1 / a0, a2 / a0}
}

// ----- One-Pole Lowpass ----- //

type onePoleLP struct {
	alpha float64
	state float64
}

func newOnePoleLP(cutoff float64) *onePoleLP {
	f := &onePoleLP{}
	f.setCutoff(cutoff)
	return f
}

func (f *onePoleLP) setCutoff(cutoff float64) {
	if cutoff <= 0 || cutoff >= sampleRate/2 {
		f.alpha = 1 // pass-through
		return
	}
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	f.alpha = secPerSample / (rc + secPerSample)
}

func (f *onePoleLP) step(in float64) float64 {
	f.state += f.alpha * (in - f.state)
	return f.state
}
