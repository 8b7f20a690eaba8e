package fingerprint

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockImage builds a deterministic 256x256 grayscale image of 16x16 blocks,
// each either dark (32) or bright (224) depending on an LCG bit stream. The
// bimodal values keep every block firmly on one side of the mean, so hash
// behavior under block flips is predictable.
func blockImage(seed uint32) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, canonicalSize, canonicalSize))
	state := seed
	blocks := canonicalSize / hashSize

	for by := 0; by < blocks; by++ {
		for bx := 0; bx < blocks; bx++ {
			state = state*1664525 + 1013904223
			v := uint8(32)
			if state&0x80000000 != 0 {
				v = 224
			}
			fillBlock(img, bx, by, v)
		}
	}
	return img
}

// flipBlocks returns a copy of img with the first n blocks inverted.
func flipBlocks(img *image.Gray, n int) *image.Gray {
	out := image.NewGray(img.Bounds())
	copy(out.Pix, img.Pix)

	blocks := canonicalSize / hashSize
	for i := 0; i < n && i < blocks*blocks; i++ {
		bx, by := i%blocks, i/blocks
		cur := out.GrayAt(bx*hashSize, by*hashSize).Y
		fillBlock(out, bx, by, 255-cur)
	}
	return out
}

func fillBlock(img *image.Gray, bx, by int, v uint8) {
	for y := by * hashSize; y < (by+1)*hashSize; y++ {
		for x := bx * hashSize; x < (bx+1)*hashSize; x++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
}

func hashSet(img *image.Gray) Fingerprint {
	canonical := canonicalize(img)
	return NewHashSet(map[string]BitString{
		AlgPHash:   perceptualHash(canonical),
		AlgDHash:   differenceHash(canonical),
		AlgAverage: averageHash(canonical),
	})
}

func TestHashesAreDeterministic(t *testing.T) {
	a := hashSet(blockImage(42))
	b := hashSet(blockImage(42))

	for _, alg := range HashAlgorithms {
		assert.Equal(t, a.Hashes[alg], b.Hashes[alg], "algorithm %s", alg)
	}
}

func TestIdenticalImagesScoreMax(t *testing.T) {
	a := hashSet(blockImage(7))
	b := hashSet(blockImage(7))

	score, ok := Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, MaxScore, score)
}

func TestDifferentImagesScoreLow(t *testing.T) {
	a := hashSet(blockImage(1))
	b := hashSet(blockImage(999))

	score, ok := Compare(a, b)
	require.True(t, ok)
	assert.Less(t, score, 60.0)
}

func TestPerturbationLowersScore(t *testing.T) {
	base := blockImage(13)

	orig := hashSet(base)
	slightly := hashSet(flipBlocks(base, 4))
	heavily := hashSet(flipBlocks(base, 128))

	slightScore, ok := Compare(orig, slightly)
	require.True(t, ok)
	heavyScore, ok := Compare(orig, heavily)
	require.True(t, ok)

	assert.Less(t, slightScore, MaxScore)
	assert.Greater(t, slightScore, heavyScore)
}

func TestAverageHashTracksFlippedBlocks(t *testing.T) {
	base := blockImage(25)
	flipped := flipBlocks(base, 10)

	ha := averageHash(canonicalize(base))
	hb := averageHash(canonicalize(flipped))

	// Each 16x16 block collapses onto one cell of the hash grid, so every
	// inverted block must move its cell across the mean.
	d := ha.Distance(hb)
	assert.GreaterOrEqual(t, d, 8)
	assert.LessOrEqual(t, d, 16)
}

func TestCanonicalizePreservesExactSize(t *testing.T) {
	img := blockImage(3)
	canonical := canonicalize(img)

	assert.Equal(t, canonicalSize, canonical.Bounds().Dx())
	assert.Equal(t, canonicalSize, canonical.Bounds().Dy())

	// A grayscale image already at canonical size must pass through with
	// pixel values intact.
	assert.Equal(t, img.GrayAt(0, 0).Y, canonical.GrayAt(0, 0).Y)
	assert.Equal(t, img.GrayAt(200, 130).Y, canonical.GrayAt(200, 130).Y)
}

func TestCanonicalizeResizesLargeImages(t *testing.T) {
	big := image.NewGray(image.Rect(0, 0, 1024, 768))
	for i := range big.Pix {
		big.Pix[i] = uint8(i % 251)
	}

	canonical := canonicalize(big)
	assert.Equal(t, canonicalSize, canonical.Bounds().Dx())
	assert.Equal(t, canonicalSize, canonical.Bounds().Dy())
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Equal(t, 7.0, median([]float64{7}))
}
