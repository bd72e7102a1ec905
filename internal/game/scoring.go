package game

// CodeLength is the number of digits in a secret and in a guess.
const CodeLength = 4

// CorrectPositions counts indices where guess and secret hold the same digit.
// Both arguments must already be valid 4-digit strings.
func CorrectPositions(guess, secret string) int {
	n := 0
	for i := 0; i < CodeLength; i++ {
		if guess[i] == secret[i] {
			n++
		}
	}
	return n
}

// FeedbackDigitSet returns the guessed digits that occur anywhere in secret,
// ascending, each at most once.
func FeedbackDigitSet(guess, secret string) []string {
	var inSecret [10]bool
	for i := 0; i < CodeLength; i++ {
		inSecret[secret[i]-'0'] = true
	}

	var guessed [10]bool
	for i := 0; i < CodeLength; i++ {
		guessed[guess[i]-'0'] = true
	}

	out := []string{}
	for d := 0; d < 10; d++ {
		if guessed[d] && inSecret[d] {
			out = append(out, string(rune('0'+d)))
		}
	}
	return out
}

// FeedbackPositionMask reports, per index, whether guess hits secret exactly.
func FeedbackPositionMask(guess, secret string) []bool {
	mask := make([]bool, CodeLength)
	for i := 0; i < CodeLength; i++ {
		mask[i] = guess[i] == secret[i]
	}
	return mask
}

func valid4Digits(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < CodeLength; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
