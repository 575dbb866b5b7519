package math

import "github.com/chewxy/math32"

// Sigmoid maps a logit to a probability in [0, 1].
// It saturates to exactly 0 or 1 once e^-v over- or underflows float32.
func Sigmoid(v float32) float32 {
	return 1 / (1 + math32.Exp(-v))
}

// Logit is the inverse of Sigmoid. Logit(0) is -Inf and Logit(1) is +Inf.
func Logit(p float32) float32 {
	return math32.Log(p / (1 - p))
}
