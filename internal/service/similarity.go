package service

import "math"

// CosineSimilarity returns 0 when either vector has zero norm or the
// dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// averageSimilarity is the mean similarity between vec and each member.
func averageSimilarity(vec []float32, members [][]float32) float64 {
	if len(members) == 0 {
		return 0
	}
	var sum float64
	for _, m := range members {
		sum += CosineSimilarity(vec, m)
	}
	return sum / float64(len(members))
}

// averagePairwiseSimilarity is the mean over every cross pair of a and b.
func averagePairwiseSimilarity(a, b [][]float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var sum float64
	for _, x := range a {
		for _, y := range b {
			sum += CosineSimilarity(x, y)
		}
	}
	return sum / float64(len(a)*len(b))
}
