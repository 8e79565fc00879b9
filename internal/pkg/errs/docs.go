// Package errs provides the typed errors shared by the domain, application and
// adapter layers of the restaurant service.
//
// Every error type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ...)
// with a struct carrying the offending parameter, so callers can branch with
// errors.Is and still log the details:
//
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return ctx.JSON(http.StatusNotFound, ...)
//	}
//
// The HTTP adapter maps each sentinel onto a status code.
package errs
