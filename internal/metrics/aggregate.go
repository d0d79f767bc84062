// internal/metrics/aggregate.go
package metrics

import "math"

// outlierSigmas is the rejection threshold: a frame is an outlier when its
// frame time deviates from the run mean by more than this many standard
// deviations.
const outlierSigmas = 5.0

// Aggregate reduces a run's frame buffer to its statistical rollup.
//
// Warm-up frames are stripped first. Outliers are detected against the mean
// and sample standard deviation of the remaining frame times, marked
// IsOutlier in place (so raw exports retain them), and excluded from every
// statistic that follows. An empty or all-warm-up buffer returns a
// zero-valued rollup with ValidFrameCount 0.
func Aggregate(frames []FrameMetrics, configName string, runIndex int) AggregatedRunMetrics {
	agg := AggregatedRunMetrics{
		ConfigName: configName,
		RunIndex:   runIndex,
	}

	var frameTimes, gpuTimes []float64
	var indices []int
	for i := range frames {
		if frames[i].IsWarmupFrame {
			continue
		}
		frameTimes = append(frameTimes, frames[i].FrameTimeMs)
		gpuTimes = append(gpuTimes, frames[i].GPUTimeMs)
		indices = append(indices, i)
	}
	if len(frameTimes) == 0 {
		return agg
	}

	mean := Mean(frameTimes)
	stddev := StdDev(frameTimes, mean)

	var cleanFrameTimes, cleanGPUTimes []float64
	for i, ft := range frameTimes {
		if math.Abs(ft-mean) > outlierSigmas*stddev {
			frames[indices[i]].IsOutlier = true
			agg.OutlierCount++
			continue
		}
		cleanFrameTimes = append(cleanFrameTimes, ft)
		cleanGPUTimes = append(cleanGPUTimes, gpuTimes[i])
	}

	agg.ValidFrameCount = len(cleanFrameTimes)
	if len(cleanFrameTimes) == 0 {
		return agg
	}

	agg.MeanFrameTime = Mean(cleanFrameTimes)
	agg.MedianFrameTime = Median(cleanFrameTimes)
	agg.StddevFrameTime = StdDev(cleanFrameTimes, agg.MeanFrameTime)
	agg.MinFrameTime = minOf(cleanFrameTimes)
	agg.MaxFrameTime = maxOf(cleanFrameTimes)
	agg.Percentile99 = Percentile(cleanFrameTimes, 99)

	var fpsValues []float64
	for _, ft := range cleanFrameTimes {
		if ft > 0 {
			fpsValues = append(fpsValues, 1000/ft)
		}
	}
	agg.MeanFPS = Mean(fpsValues)
	agg.MedianFPS = Median(fpsValues)
	agg.FPS1PercentLow = Percentile(fpsValues, 1)

	agg.MeanGPUTime = Mean(cleanGPUTimes)
	agg.MedianGPUTime = Median(cleanGPUTimes)
	agg.StddevGPUTime = StdDev(cleanGPUTimes, agg.MeanGPUTime)

	return agg
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
