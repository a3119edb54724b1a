package service

import (
	"fmt"
	"log"
	"math"
	"runtime/debug"
)

// RecoverAndLog recovers from panic and logs it with context
func RecoverAndLog(context string) {
	if r := recover(); r != nil {
		log.Printf("❌ [PANIC RECOVERED] %s: %v\n%s", context, r, string(debug.Stack()))
	}
}

// SafeGo launches a goroutine with panic recovery
func SafeGo(name string, fn func()) {
	go func() {
		defer RecoverAndLog(fmt.Sprintf("Goroutine: %s", name))
		fn()
	}()
}

// ValidateFloat64 checks if a float64 is valid (not NaN or Inf)
func ValidateFloat64(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// ValidatePrice checks if a price value is valid for trading
func ValidatePrice(price float64) bool {
	return ValidateFloat64(price) && price > 0 && price < 1e10
}
