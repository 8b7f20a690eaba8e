package fingerprint

import (
	"image"
	"math"
	"sort"

	"golang.org/x/image/draw"
)

const (
	// hashSize is the grid edge of every perceptual hash: 16x16 = 256 bits.
	hashSize = 16

	// canonicalSize is the edge of the canonical square every image is
	// resized to before hashing. Hamming-distance thresholds are calibrated
	// against this size; skipping canonicalization invalidates them.
	canonicalSize = 256

	// pHashFactor oversamples the phash input so the DCT sees enough
	// spatial detail: the DCT runs on a (hashSize*pHashFactor)^2 image.
	pHashFactor = 4
)

// canonicalize converts a decoded image to the canonical 256x256 grayscale
// form all hashes are computed from. An image that is already canonical in
// size is not resampled, so identical canonical pixel content always yields
// identical hashes.
func canonicalize(src image.Image) *image.Gray {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, canonicalSize, canonicalSize))
	if b.Dx() == canonicalSize && b.Dy() == canonicalSize {
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), src, b, draw.Src, nil)
	}

	gray := image.NewGray(rgba.Bounds())
	for y := 0; y < canonicalSize; y++ {
		for x := 0; x < canonicalSize; x++ {
			r, g, bl, _ := rgba.At(x, y).RGBA()
			// ITU-R 601-2 luma, same weights as a PIL "L" conversion.
			l := (299*(r>>8) + 587*(g>>8) + 114*(bl>>8)) / 1000
			gray.Pix[y*gray.Stride+x] = uint8(l)
		}
	}
	return gray
}

// resizeGray downscales a grayscale image to w x h.
func resizeGray(src *image.Gray, w, h int) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func grayPixels(g *image.Gray) []float64 {
	b := g.Bounds()
	out := make([]float64, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, float64(g.Pix[(y-b.Min.Y)*g.Stride+(x-b.Min.X)]))
		}
	}
	return out
}

// averageHash sets a bit for every cell brighter than the mean intensity.
func averageHash(canonical *image.Gray) BitString {
	px := grayPixels(resizeGray(canonical, hashSize, hashSize))
	var sum float64
	for _, v := range px {
		sum += v
	}
	mean := sum / float64(len(px))

	var b BitString
	for i, v := range px {
		if v > mean {
			b.setBit(i)
		}
	}
	return b
}

// differenceHash sets a bit for every horizontal gradient that increases
// left to right, computed on a (hashSize+1) x hashSize grid.
func differenceHash(canonical *image.Gray) BitString {
	small := resizeGray(canonical, hashSize+1, hashSize)
	var b BitString
	idx := 0
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			left := small.Pix[y*small.Stride+x]
			right := small.Pix[y*small.Stride+x+1]
			if right > left {
				b.setBit(idx)
			}
			idx++
		}
	}
	return b
}

// perceptualHash runs a 2D DCT over an oversampled grid and sets a bit for
// every low-frequency coefficient above the median of the low-frequency
// block. Robust to brightness and contrast shifts that defeat averageHash.
func perceptualHash(canonical *image.Gray) BitString {
	n := hashSize * pHashFactor
	px := grayPixels(resizeGray(canonical, n, n))

	coeffs := dct2D(px, n)

	// Top-left hashSize x hashSize block holds the low frequencies.
	low := make([]float64, 0, hashSize*hashSize)
	for y := 0; y < hashSize; y++ {
		for x := 0; x < hashSize; x++ {
			low = append(low, coeffs[y*n+x])
		}
	}
	med := median(low)

	var b BitString
	for i, v := range low {
		if v > med {
			b.setBit(i)
		}
	}
	return b
}

// dct2D computes a separable, unnormalized type-II DCT of an n x n image
// stored row-major. Scaling is irrelevant here: only the per-coefficient
// ordering against the median matters.
func dct2D(px []float64, n int) []float64 {
	tmp := make([]float64, n*n)
	row := make([]float64, n)
	for y := 0; y < n; y++ {
		copy(row, px[y*n:(y+1)*n])
		dct1D(row, tmp[y*n:(y+1)*n])
	}
	out := make([]float64, n*n)
	col := make([]float64, n)
	res := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = tmp[y*n+x]
		}
		dct1D(col, res)
		for y := 0; y < n; y++ {
			out[y*n+x] = res[y]
		}
	}
	return out
}

func dct1D(in, out []float64) {
	n := len(in)
	for k := 0; k < n; k++ {
		var sum float64
		for i, v := range in {
			sum += v * math.Cos(math.Pi*float64(k)*(2*float64(i)+1)/(2*float64(n)))
		}
		out[k] = 2 * sum
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
