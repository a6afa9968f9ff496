package preprocess

import (
	"github.com/pkg/errors"
	"math"
	"strings"
)

type Interpolation string

const (
	Nearest  = Interpolation("nearest")
	Bilinear = Interpolation("bilinear")
	Area     = Interpolation("area")
	Lanczos4 = Interpolation("lanczos4")
)

const DefaultInterpolation = Bilinear

func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "":
		return DefaultInterpolation, nil
	case string(Nearest):
		return Nearest, nil
	case string(Bilinear):
		return Bilinear, nil
	case string(Area):
		return Area, nil
	case string(Lanczos4), "high_quality", "high-quality":
		return Lanczos4, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedInterpolation,
			"%q, expected one of nearest, bilinear, area, lanczos4", s)
	}
}

// tap is the list of source indices and weights that produce one output sample.
type tap struct {
	index  []int
	weight []float64
}

// taps computes, for each of the out samples along one axis, the source
// samples it reads from an axis of length in.
func (i Interpolation) taps(in, out int) []tap {
	result := make([]tap, out)
	for d := 0; d < out; d++ {
		switch i {
		case Nearest:
			result[d] = nearestTap(d, in, out)
		case Area:
			result[d] = areaTap(d, in, out)
		case Lanczos4:
			result[d] = lanczosTap(d, in, out)
		default:
			result[d] = bilinearTap(d, in, out)
		}
	}
	return result
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func nearestTap(d, in, out int) tap {
	s := int(math.Floor(float64(d) * float64(in) / float64(out)))
	return tap{index: []int{clampIndex(s, in)}, weight: []float64{1}}
}

func bilinearTap(d, in, out int) tap {
	fx := (float64(d)+0.5)*float64(in)/float64(out) - 0.5
	x0 := int(math.Floor(fx))
	frac := fx - float64(x0)
	if x0 < 0 {
		x0, frac = 0, 0
	}
	if x0 >= in-1 {
		x0, frac = in-1, 0
	}
	if frac == 0 {
		return tap{index: []int{x0}, weight: []float64{1}}
	}
	return tap{index: []int{x0, x0 + 1}, weight: []float64{1 - frac, frac}}
}

func areaTap(d, in, out int) tap {
	lo := float64(d) * float64(in) / float64(out)
	hi := float64(d+1) * float64(in) / float64(out)
	t := tap{}
	sum := 0.0
	for s := int(math.Floor(lo)); s < in && float64(s) < hi; s++ {
		overlap := math.Min(hi, float64(s+1)) - math.Max(lo, float64(s))
		if overlap <= 0 {
			continue
		}
		t.index = append(t.index, s)
		t.weight = append(t.weight, overlap)
		sum += overlap
	}
	for k := range t.weight {
		t.weight[k] /= sum
	}
	return t
}

const lanczosA = 4

func lanczos(x float64) float64 {
	if x == 0 {
		return 1
	}
	if x <= -lanczosA || x >= lanczosA || x == math.Trunc(x) {
		return 0
	}
	px := math.Pi * x
	return lanczosA * math.Sin(px) * math.Sin(px/lanczosA) / (px * px)
}

func lanczosTap(d, in, out int) tap {
	center := (float64(d)+0.5)*float64(in)/float64(out) - 0.5
	base := int(math.Floor(center))
	t := tap{}
	sum := 0.0
	for k := 1 - lanczosA; k <= lanczosA; k++ {
		s := base + k
		w := lanczos(center - float64(s))
		if w == 0 {
			continue
		}
		t.index = append(t.index, clampIndex(s, in))
		t.weight = append(t.weight, w)
		sum += w
	}
	for k := range t.weight {
		t.weight[k] /= sum
	}
	return t
}
