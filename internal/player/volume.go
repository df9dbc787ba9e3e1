package player

import "math"

// levelToVolume converts a 0-100 volume level to the logarithmic gain the
// effects.Volume streamer expects (base 2). Level 100 maps to 0dB, lower
// levels attenuate on a log curve so the slider feels linear to the ear.
func levelToVolume(level int) float64 {
	if level <= 0 {
		return -10 // effectively silent, Silent flag handles true mute
	}
	return math.Log2(float64(level) / 100)
}
