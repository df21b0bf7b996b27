package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// MagnitudesToDB converts linear magnitudes to dB into dst, reusing its
// capacity, and returns it. Levels below floorDB, including silent bins,
// are clamped to floorDB so the result is always finite.
func MagnitudesToDB(dst, mag []float64, floorDB float64) []float64 {
	dst = EnsureLen(dst, len(mag))
	for i, m := range mag {
		db := LinearToDB(m)
		if !(db >= floorDB) {
			db = floorDB
		}
		dst[i] = db
	}
	return dst
}
