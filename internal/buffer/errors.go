package buffer

const resumableDefault = false

// ErrUnexpectedEnd is returned when a read crosses the end of input.
// This is the shared UnexpectedEnd kind from spec §7, reused by every
// codec's Reader.
var ErrUnexpectedEnd error = errUnexpectedEnd{}

// Error is the interface satisfied by every error originating from a
// codec package in this module. Ported from the teacher's
// runtime/errors.go Error interface.
type Error interface {
	error

	// Resumable reports whether the error means the stream is malformed
	// and unrecoverable (false), or whether the caller could plausibly
	// continue past it (true).
	Resumable() bool
}

// contextError allows errors to be enhanced with additional context
// about where in a document they originated.
type contextError interface {
	Error
	withContext(ctx string) error
}

// Cause returns the underlying cause of an error wrapped with WrapError.
func Cause(e error) error {
	out := e
	if w, ok := e.(errWrapped); ok && w.cause != nil {
		out = w.cause
	}
	return out
}

// Resumable reports whether e means decoding could continue past it.
func Resumable(e error) bool {
	if e, ok := e.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

// WrapError wraps err with additional positional context, retrievable via Cause().
func WrapError(err error, ctx ...string) error {
	switch e := err.(type) {
	case contextError:
		return e.withContext(ctxString(ctx))
	default:
		return errWrapped{cause: err, ctx: ctxString(ctx)}
	}
}

func ctxString(ctx []string) string {
	if len(ctx) == 0 {
		return ""
	}
	s := ctx[len(ctx)-1]
	for i := len(ctx) - 2; i >= 0; i-- {
		s = ctx[i] + "/" + s
	}
	return s
}

func addCtx(ctx, add string) string {
	if ctx != "" {
		return add + "/" + ctx
	}
	return add
}

type errWrapped struct {
	cause error
	ctx   string
}

func (e errWrapped) Error() string {
	if e.ctx != "" {
		return e.cause.Error() + " at " + e.ctx
	}
	return e.cause.Error()
}

func (e errWrapped) Resumable() bool {
	if e, ok := e.cause.(Error); ok {
		return e.Resumable()
	}
	return resumableDefault
}

func (e errWrapped) Unwrap() error { return e.cause }

type errUnexpectedEnd struct{}

func (e errUnexpectedEnd) Error() string   { return "unexpected end of input" }
func (e errUnexpectedEnd) Resumable() bool { return false }

// ErrDepthExceeded is returned when recursion depth exceeds a decoder's
// configured limit.
var ErrDepthExceeded error = errDepthExceeded{}

type errDepthExceeded struct{}

func (e errDepthExceeded) Error() string   { return "maximum recursion depth exceeded" }
func (e errDepthExceeded) Resumable() bool { return false }
