package cryptox

// Format constants. Changing any of them breaks decryption of existing data.
const (
	SaltLength = 32
	IVLength   = 12
	TagLength  = 16
	HashLength = 10
	KeyLength  = 32

	// ExportIterations is the PBKDF2 round count of self-contained encrypted
	// packages. It is far below the per-user count and only protects a
	// short-lived interchange file; existing packages depend on it.
	ExportIterations = 4000
)
