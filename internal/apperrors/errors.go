package apperrors

import "errors"

// Validation errors are raised locally, before any request reaches the
// migration API. Their text is shown to the user verbatim.
var (
	// ErrMissingUploadFields indicates that migration id, description, SQL content
	// or access token was left empty.
	ErrMissingUploadFields = errors.New("Please fill in all required fields.")

	// ErrMissingRollbackSelection indicates that no target version or no backup file was selected.
	ErrMissingRollbackSelection = errors.New("Please select both target version and backup file.")

	// ErrRollbackNotAcknowledged indicates the destructive-operation checkbox was not ticked.
	ErrRollbackNotAcknowledged = errors.New("Please confirm that you understand this operation is destructive.")

	// ErrConfirmationDeclined indicates the user answered "no" to a confirmation prompt.
	ErrConfirmationDeclined = errors.New("operation cancelled")
)

// Local store errors.
var (
	// ErrSettingNotFound indicates that no value is stored under the requested key.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTokenVaultDisabled indicates that no encryption key was configured for the token vault.
	ErrTokenVaultDisabled = errors.New("token vault is disabled: MIGDASH_TOKEN_KEY is not set")

	// ErrInvalidTokenKey indicates that the configured fernet key could not be decoded.
	ErrInvalidTokenKey = errors.New("invalid token encryption key")

	// ErrTokenDecrypt indicates that a stored token could not be decrypted with the current key.
	ErrTokenDecrypt = errors.New("failed to decrypt stored token")
)

// Operation failure errors returned by the dashboard HTTP handlers.
var (
	ErrFailedToRetrieveActivity = errors.New("failed to retrieve activity")
	ErrFailedToRetrieveState    = errors.New("failed to retrieve dashboard state")
	ErrInvalidLimit             = errors.New("limit must be a positive integer")
	ErrInvalidForm              = errors.New("invalid form submission")
)
