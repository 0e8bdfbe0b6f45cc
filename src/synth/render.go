package synth

import (
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// WriteWAV encodes mono samples as 16-bit stereo WAV.
func WriteWAV(w io.Writer, samples []float64) error {
	writer := wav.NewWriter(w, uint32(len(samples)), channelNum, sampleRate, bitDepthInBytes*8)
	const max = 32767
	block := make([]wav.Sample, 0, samplesPerCycle)
	for i := 0; i < len(samples); i++ {
		v := samples[i]
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		s := int(v * max)
		block = append(block, wav.Sample{Values: [2]int{s, s}})
		if len(block) == cap(block) {
			if err := writer.WriteSamples(block); err != nil {
				return err
			}
			block = block[:0]
		}
	}
	if len(block) > 0 {
		return writer.WriteSamples(block)
	}
	return nil
}

// RenderToWAV renders seconds of output offline and writes it to path.
func (e *Engine) RenderToWAV(path string, seconds float64) error {
	samples := e.Render(seconds)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteWAV(f, samples)
}
