package sentinel

var _ error = Error("")

// Error is a string-backed error type. Declaring sentinel values as consts of
// this type keeps them immutable, and because the type is comparable the
// plain == used by errors.Is matches them through wrapped chains.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
