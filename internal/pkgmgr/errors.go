package pkgmgr

import "errors"

var (
	// ErrEnforcerUnavailable is advisory: the only-allow tool could not be
	// reached, so the package manager is not checked.
	ErrEnforcerUnavailable = errors.New("only-allow is not available")
	// ErrWrongPackageManager means the install was started with a package
	// manager other than the project's canonical one.
	ErrWrongPackageManager = errors.New("package manager enforcement failed")
	// ErrPackageNotFound is returned by the registry for unknown packages.
	ErrPackageNotFound = errors.New("package not found")
	// ErrRegistry wraps unexpected registry responses.
	ErrRegistry = errors.New("registry request failed")
)
