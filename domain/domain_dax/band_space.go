package domain_dax

import "fmt"

// simpleFrequencies 10段用户模式
var simpleFrequencies = []int{47, 141, 328, 656, 1031, 1688, 3000, 4688, 7125, 13875}

// standardFrequencies 20段专业模式
var standardFrequencies = []int{
	47, 141, 234, 328, 469, 656, 844, 1031, 1313, 1688,
	2250, 3000, 3750, 4688, 5813, 7125, 9000, 11250, 13875, 19688,
}

// SimpleFrequencies returns a copy of the 10-band simple frequency list.
func SimpleFrequencies() []int {
	return append([]int(nil), simpleFrequencies...)
}

// StandardFrequencies returns a copy of the 20-band advanced frequency list.
func StandardFrequencies() []int {
	return append([]int(nil), standardFrequencies...)
}

// FramesFor returns the ordered frequency list for mode. Anything other than
// ModeAdvanced is treated as simple.
//
// The two lists are aligned by index, not by value: index 2 is 328 Hz in the
// simple space and 234 Hz in the advanced one. Switching modes keeps the
// working array as-is, so values move with their index.
func FramesFor(mode EditMode) []int {
	if mode == ModeAdvanced {
		return StandardFrequencies()
	}
	return SimpleFrequencies()
}

// FrequencyAt returns the frequency at index for mode.
func FrequencyAt(mode EditMode, index int) (int, bool) {
	frames := framesRef(mode)
	if index < 0 || index >= len(frames) {
		return 0, false
	}
	return frames[index], true
}

// IndexOf returns the position of frequency in mode's list, or -1.
func IndexOf(mode EditMode, frequency int) int {
	for i, f := range framesRef(mode) {
		if f == frequency {
			return i
		}
	}
	return -1
}

// BandCount is the number of bands in mode's space.
func BandCount(mode EditMode) int {
	return len(framesRef(mode))
}

// ZeroBands builds a band per frequency of mode with both gain and target at zero.
func ZeroBands(mode EditMode) []Band {
	frames := framesRef(mode)
	out := make([]Band, len(frames))
	for i, f := range frames {
		gain, target := 0.0, 0
		out[i] = Band{Frequency: f, Gain: &gain, Target: &target}
	}
	return out
}

// FormatFrequency renders a frequency label, "1.0k" style above 1 kHz.
func FormatFrequency(frequency int) string {
	if frequency >= 1000 {
		return fmt.Sprintf("%.1fk", float64(frequency)/1000)
	}
	return fmt.Sprintf("%d", frequency)
}

func framesRef(mode EditMode) []int {
	if mode == ModeAdvanced {
		return standardFrequencies
	}
	return simpleFrequencies
}
