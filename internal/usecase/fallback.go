package usecase

import "fmt"

// FallbackUnavailable is sent when the LLM could not be reached at all.
const FallbackUnavailable = "LLM response unavailable"

// FallbackForStatus is sent when the LLM answered with a non-200 status.
func FallbackForStatus(code int) string {
	return fmt.Sprintf("LLM request failed with status %d", code)
}
