package quality

// Flag is the upstream format bitmask (fnval).
type Flag int

const (
	FlagDASH        Flag = 16
	FlagHDR         Flag = 64
	Flag4K          Flag = 128
	FlagDolbyAudio  Flag = 256
	FlagDolbyVision Flag = 512
	Flag8K          Flag = 1024
)

// Has reports whether every bit of other is set in f.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Format composes the fnval for a requested tier. HDR, Dolby Vision and 8K
// are exact-tier tracks; 4K is a threshold.
func Format(n Number, dolbyAudio bool) Flag {
	f := FlagDASH
	if n == HDR {
		f |= FlagHDR
	}
	if n >= P4K {
		f |= Flag4K
	}
	if dolbyAudio {
		f |= FlagDolbyAudio
	}
	if n == Dolby {
		f |= FlagDolbyVision
	}
	if n == P8K {
		f |= Flag8K
	}
	return f
}
