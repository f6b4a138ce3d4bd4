package bfv

import "errors"

// Sentinel error kinds. Every public operation that can fail
// wraps one of these with fmt.Errorf's %w so callers can errors.Is against
// a stable kind while still getting a human-readable message.
var (
	ErrInvalidContext = errors.New("bfv: incompatible contexts")
	ErrInvalidCiphertext = errors.New("bfv: invalid ciphertext")
	ErrInvalidPolyContext = errors.New("bfv: invalid poly context")
	ErrIncompatiblePlaintext = errors.New("bfv: plaintext incompatible with ciphertext")

	ErrInvalidCorrectionFactor = errors.New("bfv: unsupported correction factor")
	ErrInvalidEncryptionParams = errors.New("bfv: invalid encryption parameters")
	ErrInvalidRotationStep = errors.New("bfv: rotation step not representable by the available Galois keys")

	ErrMissingGaloisKey = errors.New("bfv: missing Galois key")
	ErrMissingGaloisElement = errors.New("bfv: missing Galois element")
	ErrMissingRelinearizationKey = errors.New("bfv: missing relinearization key")

	ErrUnsupportedOperation = errors.New("bfv: unsupported operation")

	ErrInvalidModulus = errors.New("bfv: invalid modulus")
	ErrEmptyModulus = errors.New("bfv: empty modulus list")

	ErrEncodingOutOfBounds = errors.New("bfv: encoding value out of bounds")
)
