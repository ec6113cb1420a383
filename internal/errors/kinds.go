package errors

// Failure classes of the resolve pipeline. Every fatal error carries exactly
// one of them.
var (
	// ErrConfig is returned for an invalid identity, option or override file.
	ErrConfig = New("invalid configuration")

	// ErrRaceFailed is returned when no mirror announced a digest in time.
	ErrRaceFailed = New("no mirror announced a digest")

	// ErrDownloadExhausted is returned when every mirror failed to deliver
	// a required manifest.
	ErrDownloadExhausted = New("download failed on all mirrors")

	// ErrInvalidManifest is returned for manifests that cannot be parsed or
	// lack required keys.
	ErrInvalidManifest = New("invalid manifest")

	// ErrIdentityMismatch is returned when a release manifest describes a
	// different OS, language or architecture than requested.
	ErrIdentityMismatch = New("manifest identity mismatch")

	// ErrNotFound is returned when the requested manual or release does not
	// exist in the resolved manifests.
	ErrNotFound = New("not found")

	// ErrContentUnavailable is returned when a manual exists but no mirror
	// delivered content matching its digest.
	ErrContentUnavailable = New("content unavailable")
)
