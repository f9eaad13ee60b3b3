package persist

import (
	"testing"

	"go.uber.org/goleak"
)

// Every save goroutine must be finished once Wait returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
