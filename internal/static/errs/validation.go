package errs

import "errors"

var (
	ErrNoInputFile      = errors.New("no input file provided")
	ErrNoActivity       = errors.New("no activity selected")
	ErrBundleNotFound   = errors.New("app bundle archive not found")
	ErrMissingEngine    = errors.New("no engine selected")
	ErrJobNotFound      = errors.New("job not found")
	ErrInvalidCallback  = errors.New("invalid callback token")
	ErrCallbackMismatch = errors.New("callback token does not match request")
)
