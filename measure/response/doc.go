// Package response characterizes effects from the outside.
//
// Impulse and SineGain drive an effect with an impulse or a sine. The impulse
// response can then be viewed as a magnitude spectrum (NewSpectrum) or as an
// energy decay (AnalyzeDecay), which yields the onset delay and reverberation
// time from Schroeder backward integration. MeasureHarmonics reports the
// distortion a steady sine picks up on its way through:
//
//	ir := response.Impulse(fx, 1, 96000)
//	d, err := response.AnalyzeDecay(ir, 48000)
//	fmt.Printf("onset %d samples, RT60 %.2f s\n", d.Onset, d.RT60)
//
//	h, err := response.MeasureHarmonics(fx, 1000, 48000, 0.5, 8192, 0)
//	fmt.Printf("THD %.1f dB\n", h.THDDB())
package response
