package errors

import stderrors "errors"

// Re-exported so callers importing this package do not need the stdlib one too.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
