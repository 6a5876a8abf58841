package quality

// Track is anything carrying an upstream stream id.
type Track interface {
	TrackID() int
}

// SelectVideo picks the track with the greatest id not above n, keeping the
// first occurrence on ties. When every track is above n the first track is used.
func SelectVideo[T Track](tracks []T, n Number) (T, bool) {
	var zero T
	if len(tracks) == 0 {
		return zero, false
	}
	best := -1
	for i, t := range tracks {
		id := t.TrackID()
		if id > int(n) {
			continue
		}
		if best < 0 || id > tracks[best].TrackID() {
			best = i
		}
	}
	if best < 0 {
		return tracks[0], true
	}
	return tracks[best], true
}

// AudioPreference expresses the caller's audio wishes for a download.
type AudioPreference struct {
	HiRes bool
	Dolby bool
}

// SelectAudio picks hi-res audio when wanted and present, then the first
// Dolby track, then the first standard track.
func SelectAudio[T any](standard, dolby []T, hires *T, wantHiRes bool) (T, bool) {
	if wantHiRes && hires != nil {
		return *hires, true
	}
	if len(dolby) > 0 {
		return dolby[0], true
	}
	if len(standard) > 0 {
		return standard[0], true
	}
	var zero T
	return zero, false
}
