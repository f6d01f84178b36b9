package layout

import (
	"github.com/npillmayer/parashape/core"
)

// Errors returned by layout sessions. All errors returned by a session wrap one
// of them, therefore clients can check with errors.Is. core.UserMessage returns
// a description of the failing call.
var (
	// ErrCreateFailed is returned if the shaping engine cannot be created.
	ErrCreateFailed = core.Error(core.ECREATE, "cannot create shaping engine")
	// ErrGetGlyphsFailed is returned if the engine does not deliver glyphs for a
	// laid out text.
	ErrGetGlyphsFailed = core.Error(core.EGLYPHS, "cannot get glyphs from shaping engine")
	// ErrFailed is returned for operations called out of order, for invalid
	// arguments and for operations the shaping engine refused.
	ErrFailed = core.Error(core.EFAILED, "layout operation failed")
)

func failed(format string, v ...interface{}) error {
	return core.WrapError(ErrFailed, core.EFAILED, format, v...)
}
