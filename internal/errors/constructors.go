package errors

// Convenience functions for common error patterns

// Configuration errors (fatal: abort construction before any working copy is touched)

func InvalidTarget(target, reason string) *RepoError {
	return New(CategoryConfig, SeverityFatal, "invalid repository target").
		WithContext("target", target).
		WithContext("reason", reason)
}

func ClientUnavailable(client string, cause error) *RepoError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "required VCS client unavailable").
		WithContext("client", client)
}

func ConfigRequired(field string) *RepoError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *RepoError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Synchronization warnings (logged, execution continues in best-effort mode)

func SyncWarning(operation, workingCopy, remote string, cause error) *RepoError {
	return Wrap(cause, CategorySync, SeverityWarning, "remote synchronization failed").
		WithContext("operation", operation).
		WithContext("working_copy", workingCopy).
		WithContext("remote", remote)
}

func RemoteUnreachable(target string, cause error) *RepoError {
	return Wrap(cause, CategorySync, SeverityFatal, "remote repository unreachable").
		WithContext("target", target)
}

// Local storage errors

func WriteFailure(path string, cause error) *RepoError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "record write failed").
		WithContext("path", path)
}

func ParseFailure(path string, cause error) *RepoError {
	return Wrap(cause, CategoryParse, SeverityFatal, "record parse failed").
		WithContext("path", path)
}

// Lifecycle errors

func LifecycleViolation(operation, phase string) *RepoError {
	return New(CategoryLifecycle, SeverityFatal, "operation invalid in current lifecycle phase").
		WithContext("operation", operation).
		WithContext("phase", phase)
}
