package pkg

import "errors"

var (
	// Verification errors 🔒
	ErrVerificationFailed = errors.New("❌ asset verification failed")
)
