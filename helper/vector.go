package helper

import "math"

// CosineSimilarity returns the cosine similarity of two vectors.
// Vectors of different length or zero norm have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Centroid returns the element-wise mean of equally sized vectors.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	centroid := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		if len(v) != len(centroid) {
			return nil
		}
		for i := range v {
			centroid[i] += v[i]
		}
	}
	for i := range centroid {
		centroid[i] /= float32(len(vectors))
	}
	return centroid
}
