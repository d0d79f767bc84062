// internal/quality/image.go
// Package quality scores rendered frames against a reference image and
// against their temporal neighbors. Images are raw interleaved RGBA8 buffers
// (width * height * 4 bytes) as captured from the host renderer.
//
// SSIM here is a deliberate simplification of the canonical windowed metric:
// it is computed globally on a single channel (byte 0 of every pixel as a
// luma proxy). That is adequate for relative comparisons between rendering
// configurations but not for absolute image-quality certification.
package quality

import "math"

// Standard SSIM stabilization constants for 8-bit data:
// C1 = (0.01*255)^2, C2 = (0.03*255)^2.
const (
	ssimC1 = 6.5025
	ssimC2 = 58.5225
)

// ImageQualityMetrics holds per-frame scores against a reference frame.
type ImageQualityMetrics struct {
	FrameIndex uint32  `json:"frameIndex"`
	MSE        float64 `json:"mse"`
	PSNR       float64 `json:"psnr"`
	SSIM       float64 `json:"ssim"`
}

// Compare scores img against ref on all three metrics.
func Compare(frameIndex uint32, img, ref []byte) ImageQualityMetrics {
	return ImageQualityMetrics{
		FrameIndex: frameIndex,
		MSE:        MSE(img, ref),
		PSNR:       PSNR(img, ref),
		SSIM:       SSIM(img, ref),
	}
}

// MSE returns the mean squared per-channel difference over all bytes.
// Mismatched lengths or empty images score 0.
func MSE(a, b []byte) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	sum := 0.0
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum / float64(len(a))
}

// PSNR returns the peak signal-to-noise ratio in decibels, capped at 100 for
// (near-)identical images to avoid an infinite result.
func PSNR(a, b []byte) float64 {
	mse := MSE(a, b)
	if mse < 1e-10 {
		return 100
	}
	return 10 * math.Log10(255*255/mse)
}

// SSIM returns the global single-channel structural similarity of a and b.
// Every 4th byte (channel 0 of the interleaved RGBA pixels) is sampled as a
// luma proxy. Mismatched lengths or empty images score 0.
func SSIM(a, b []byte) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	pixelCount := len(a) / 4
	if pixelCount == 0 {
		return 0
	}

	var mean1, mean2 float64
	for i := 0; i < pixelCount; i++ {
		mean1 += float64(a[i*4])
		mean2 += float64(b[i*4])
	}
	mean1 /= float64(pixelCount)
	mean2 /= float64(pixelCount)

	var var1, var2, covar float64
	for i := 0; i < pixelCount; i++ {
		d1 := float64(a[i*4]) - mean1
		d2 := float64(b[i*4]) - mean2
		var1 += d1 * d1
		var2 += d2 * d2
		covar += d1 * d2
	}
	var1 /= float64(pixelCount)
	var2 /= float64(pixelCount)
	covar /= float64(pixelCount)

	return ((2*mean1*mean2 + ssimC1) * (2*covar + ssimC2)) /
		((mean1*mean1 + mean2*mean2 + ssimC1) * (var1 + var2 + ssimC2))
}
