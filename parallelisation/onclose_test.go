package parallelisation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/txkit-go/txkit/commonerrors"
	"github.com/txkit-go/txkit/commonerrors/errortest"
	"github.com/txkit-go/txkit/parallelisation/mocks"
)

//go:generate go tool mockgen -destination=./mocks/mock_$GOPACKAGE.go -package=mocks io Closer
func TestCloserStore(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("closes every registered closer", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		closer1 := mocks.NewMockCloser(ctlr)
		closer2 := mocks.NewMockCloser(ctlr)
		closer1.EXPECT().Close().Return(nil).Times(1)
		closer2.EXPECT().Close().Return(nil).Times(1)

		store := NewCloserStore(false)
		store.RegisterCloser(closer1, closer2)
		require.Equal(t, 2, store.Len())
		require.NoError(t, store.Close())
	})

	t.Run("closing twice closes the closers twice", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		closerMock := mocks.NewMockCloser(ctlr)
		closerMock.EXPECT().Close().Return(nil).Times(2)

		store := NewCloserStore(false)
		store.RegisterCloser(closerMock)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("closes everything despite a failure", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		failing := mocks.NewMockCloser(ctlr)
		failing.EXPECT().Close().Return(commonerrors.New(commonerrors.ErrUnexpected, "connection already torn down")).Times(1)
		quiet := mocks.NewMockCloser(ctlr)
		quiet.EXPECT().Close().Return(nil).Times(1)

		store := NewCloserStore(false)
		store.RegisterCloser(failing, quiet)
		errortest.AssertError(t, store.Close(), commonerrors.ErrUnexpected)
	})

	t.Run("stops on the first failure", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		// The failing closer cancels the run so the quiet one may be skipped.
		failing := mocks.NewMockCloser(ctlr)
		failing.EXPECT().Close().Return(commonerrors.New(commonerrors.ErrUnexpected, "flush failed")).Times(1)
		quiet := mocks.NewMockCloser(ctlr)
		quiet.EXPECT().Close().Return(nil).AnyTimes()

		store := NewCloserStore(true)
		store.RegisterCloser(failing, quiet)
		errortest.AssertError(t, store.Close(), commonerrors.ErrUnexpected)
	})
}

func TestCloseAll(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("no closers", func(t *testing.T) {
		assert.NoError(t, CloseAll())
	})

	t.Run("closes everything and keeps the first error", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		closer1 := mocks.NewMockCloser(ctlr)
		closer2 := mocks.NewMockCloser(ctlr)
		closer1.EXPECT().Close().Return(nil).Times(1)
		closer2.EXPECT().Close().Return(commonerrors.New(commonerrors.ErrUnexpected, "session already dropped")).Times(1)

		errortest.AssertError(t, CloseAll(closer1, closer2), commonerrors.ErrUnexpected)
	})

	t.Run("collates every failure", func(t *testing.T) {
		ctlr := gomock.NewController(t)
		defer ctlr.Finish()

		closer1 := mocks.NewMockCloser(ctlr)
		closer2 := mocks.NewMockCloser(ctlr)
		closer1.EXPECT().Close().Return(commonerrors.New(commonerrors.ErrUnexpected, "journal writer already closed")).Times(1)
		closer2.EXPECT().Close().Return(commonerrors.New(commonerrors.ErrConflict, "lease still held")).Times(1)

		err := CloseAllAndCollateErrors(closer1, closer2)
		errortest.AssertError(t, err, commonerrors.ErrUnexpected)
		errortest.AssertError(t, err, commonerrors.ErrConflict)
	})

	t.Run("a nil closer is reported", func(t *testing.T) {
		errortest.AssertError(t, CloseAllAndCollateErrors(nil), commonerrors.ErrUndefined)
	})
}
