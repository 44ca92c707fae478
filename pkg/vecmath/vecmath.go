// Package vecmath 提供偏好学习与排序用到的基础向量运算。
package vecmath

import "math"

// CosineSimilarity 计算余弦相似度，结果在 [-1, 1]。
// 任一向量为空、长度不一致、或范数为 0 时返回 0（中性结果，不报错）。
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Zero 返回长度为 n 的零向量。
func Zero(n int) []float64 {
	if n < 0 {
		n = 0
	}
	return make([]float64, n)
}

// Clone 返回 v 的副本；nil 返回 nil。
func Clone(v []float64) []float64 {
	if v == nil {
		return nil
	}
	return append([]float64(nil), v...)
}

// Equal 按容差 eps 比较两个向量。
func Equal(a, b []float64, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Distance 返回欧氏距离；长度不一致时返回 +Inf。
func Distance(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
