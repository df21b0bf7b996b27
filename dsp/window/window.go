package window

import (
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function in the catalog.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris
	TypeNuttall
	TypeFlatTop
	TypeBartlett
	TypeTukey

	typeCount
)

// Metadata holds reference spectral properties of a window type, as
// tabulated for long windows.
type Metadata struct {
	Name            string  // display name
	ENBW            float64 // equivalent noise bandwidth in bins
	HighestSidelobe float64 // dB relative to the main lobe
}

// Cosine-sum coefficients, w(x) = sum a_k cos(2*pi*k*x).
var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanCoeffs       = []float64{0.42, -0.5, 0.08}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	nuttallCoeffs        = []float64{0.3635819, -0.4891775, 0.1365995, -0.0106411}
	flatTopCoeffs        = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

const defaultTukeyAlpha = 0.5

// catalog maps every Type to its canonical name, aliases and metadata.
// The first name is canonical. Aliases follow the names scipy accepts.
var catalog = [typeCount]struct {
	names []string
	meta  Metadata
}{
	TypeRectangular: {
		names: []string{"rectangular", "boxcar", "box", "ones", "rect"},
		meta:  Metadata{Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3},
	},
	TypeHann: {
		names: []string{"hann", "hanning", "han"},
		meta:  Metadata{Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5},
	},
	TypeHamming: {
		names: []string{"hamming", "hamm", "ham"},
		meta:  Metadata{Name: "Hamming", ENBW: 1.3628, HighestSidelobe: -42.7},
	},
	TypeBlackman: {
		names: []string{"blackman", "black", "blk"},
		meta:  Metadata{Name: "Blackman", ENBW: 1.7268, HighestSidelobe: -58.1},
	},
	TypeBlackmanHarris: {
		names: []string{"blackmanharris", "blackman-harris", "blackharr", "bkh"},
		meta:  Metadata{Name: "Blackman-Harris", ENBW: 2.0044, HighestSidelobe: -92},
	},
	TypeNuttall: {
		names: []string{"nuttall", "nutl", "nut"},
		meta:  Metadata{Name: "Nuttall", ENBW: 1.9761, HighestSidelobe: -93.3},
	},
	TypeFlatTop: {
		names: []string{"flattop", "flat-top", "flat", "flt"},
		meta:  Metadata{Name: "Flat-Top", ENBW: 3.7702, HighestSidelobe: -93},
	},
	TypeBartlett: {
		names: []string{"bartlett", "bart", "brt"},
		meta:  Metadata{Name: "Bartlett", ENBW: 1.3333, HighestSidelobe: -26.5},
	},
	TypeTukey: {
		names: []string{"tukey", "tuk"},
		meta:  Metadata{Name: "Tukey", ENBW: 1.2222, HighestSidelobe: -15.1},
	},
}

var byName = func() map[string]Type {
	m := make(map[string]Type)
	for t := range typeCount {
		for _, n := range catalog[t].names {
			m[n] = t
		}
	}
	return m
}()

// Types returns every window type in catalog order.
func Types() []Type {
	out := make([]Type, 0, typeCount)
	for t := range typeCount {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is a member of the catalog.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// String returns the canonical lookup name of t.
func (t Type) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return catalog[t].names[0]
}

// Names returns the canonical name followed by all accepted aliases.
func Names(t Type) []string {
	if !t.Valid() {
		return nil
	}
	return append([]string(nil), catalog[t].names...)
}

// Parse resolves a window name or alias. Matching ignores case and
// surrounding whitespace. Unknown names return an *UnknownError.
func Parse(name string) (Type, error) {
	if t, ok := byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return 0, &UnknownError{Name: name}
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if !t.Valid() {
		return Metadata{}
	}
	return catalog[t].meta
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	alphaSet bool
	periodic bool
}

// WithAlpha sets the taper ratio of the Tukey window. Values outside
// [0,1] are ignored.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 && v <= 1 {
			c.alpha = v
			c.alphaSet = true
		}
	}
}

// WithPeriodic configures the periodic (DFT-even) form used for spectral
// analysis instead of the symmetric form used for filter design.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.alphaSet {
		cfg.alpha = defaultTukeyAlpha
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg)
	}

	return out
}

// ApplyCoefficientsInPlace multiplies samples with coefficients in place.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	case TypeBlackmanHarris:
		return cosineFromCoeffs(x, blackmanHarrisCoeffs)
	case TypeNuttall:
		return cosineFromCoeffs(x, nuttallCoeffs)
	case TypeFlatTop:
		return cosineFromCoeffs(x, flatTopCoeffs)
	case TypeBartlett:
		return 1 - math.Abs(2*x-1)
	case TypeTukey:
		return tukeyAt(x, cfg.alpha)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

// samplePosition maps sample n to [0,1]. The periodic form divides by size,
// so the last sample stops one step short of 1.
func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
