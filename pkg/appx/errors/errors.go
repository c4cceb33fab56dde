package errors

import "errors"

var (
	// Catalog errors 🗂️
	ErrUnknownSizeKey = errors.New("❌ unknown size key")

	// Source errors 🖼️
	ErrUnsupportedFormat       = errors.New("❌ unsupported source format")
	ErrInvalidSourceDimensions = errors.New("❌ invalid source dimensions")

	// I/O errors 📂
	ErrIOFailure = errors.New("❌ i/o failure")

	// Resource errors 🧩
	ErrUnknownArch = errors.New("❌ unknown target architecture")
)
