package analytics

import "math"

var correlationLabels = []string{"Avg Time", "Bounce Rate", "Exit Rate"}

// buildCorrelationMatrix computes the pairwise Pearson correlation of
// avg dwell time, bounce rate and exit rate across pages. Every cell is
// recomputed, including the diagonal.
func buildCorrelationMatrix(points []ScatterPoint) CorrelationMatrix {
	accessors := []func(ScatterPoint) float64{
		func(p ScatterPoint) float64 { return p.AvgTime },
		func(p ScatterPoint) float64 { return p.BounceRate },
		func(p ScatterPoint) float64 { return p.ExitRate },
	}
	matrix := make([][]float64, len(accessors))
	for i, rowMetric := range accessors {
		row := make([]float64, len(accessors))
		for j, colMetric := range accessors {
			xs := make([]float64, 0, len(points))
			ys := make([]float64, 0, len(points))
			for _, p := range points {
				xs = append(xs, rowMetric(p))
				ys = append(ys, colMetric(p))
			}
			row[j] = pearson(xs, ys)
		}
		matrix[i] = row
	}
	return CorrelationMatrix{Labels: correlationLabels, Matrix: matrix}
}

// pearson returns the Pearson correlation coefficient of the paired samples,
// clamped to [-1, 1]. Fewer than two pairs or a constant series yields 0.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}
	var meanX, meanY float64
	for i := 0; i < n; i++ {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)
	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}
	if denX <= 0 || denY <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, num/math.Sqrt(denX*denY)))
}
