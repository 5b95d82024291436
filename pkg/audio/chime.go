package audio

import "math"

// chimePCM synthesizes the notification chime as 16-bit little-endian mono
// PCM: two short notes (A5 then D6) with an exponential decay envelope.
func chimePCM() []byte {
	notes := []float64{880.0, 1174.66}
	noteSamples := chimeSampleRate * 300 / 1000 // 300ms per note

	pcm := make([]byte, 0, len(notes)*noteSamples*2)
	for _, freq := range notes {
		for i := 0; i < noteSamples; i++ {
			t := float64(i) / chimeSampleRate
			envelope := 0.4 * math.Exp(-6*t)
			sample := int16(envelope * math.MaxInt16 * math.Sin(2*math.Pi*freq*t))
			pcm = append(pcm, byte(uint16(sample)), byte(uint16(sample)>>8))
		}
	}
	return pcm
}
