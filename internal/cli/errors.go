package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Configuration errors
	ErrConfigInvalid  = "CONFIG_INVALID"
	ErrConfigExists   = "CONFIG_EXISTS"
	ErrDataDirMissing = "DATA_DIR_NOT_FOUND"
	ErrCatalogInvalid = "CATALOG_INVALID"

	// Dataset errors
	ErrDatasetNotFound = "DATASET_NOT_FOUND"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// Output errors
	ErrFileWriteError = "FILE_WRITE_ERROR"
	ErrDatabaseError  = "DATABASE_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnCatalog       = "CATALOG_WARNING"
	WarnFallbackRange = "FALLBACK_RANGE"
	WarnSkipped       = "DATASET_SKIPPED"
)
