package safeio

import (
	"io"

	"github.com/txkit-go/txkit/commonerrors"
)

// ConvertIOError translates an I/O failure into the common error vocabulary: context
// ends become ErrCancelled or ErrTimeout and stream ends become ErrEOF.
func ConvertIOError(err error) error {
	if err == nil {
		return nil
	}
	converted := commonerrors.ConvertContextError(err)
	if commonerrors.Any(converted, commonerrors.ErrEOF) {
		return converted
	}
	if commonerrors.Any(converted, io.EOF, io.ErrUnexpectedEOF) {
		return commonerrors.WrapError(commonerrors.ErrEOF, converted, "")
	}
	return converted
}
