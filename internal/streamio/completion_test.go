package streamio

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_FirstSettleWins(t *testing.T) {
	c := NewCompletion()
	c.Finish()
	c.Fail(errors.New("late"))

	assert.NoError(t, c.Wait())
}

func TestCompletion_Fail(t *testing.T) {
	boom := errors.New("boom")
	c := NewCompletion()
	c.Fail(boom)
	c.Finish()

	assert.ErrorIs(t, c.Wait(), boom)
}

func TestCompletion_FailNil(t *testing.T) {
	c := NewCompletion()
	c.Fail(nil)

	assert.ErrorIs(t, c.Wait(), ErrFailedWithoutCause)
}

func TestCompletion_DoneOpenUntilSettled(t *testing.T) {
	c := NewCompletion()

	select {
	case <-c.Done():
		t.Fatal("completion settled before Finish")
	default:
	}

	c.Finish()

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("completion not settled after Finish")
	}
}

func TestGo(t *testing.T) {
	boom := errors.New("boom")

	assert.NoError(t, Go(func() error { return nil }).Wait())
	assert.ErrorIs(t, Go(func() error { return boom }).Wait(), boom)
}

func TestPromisify(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		v, err := Promisify(func(cb Callback[int]) {
			go cb(42, nil)
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Promisify(func(cb Callback[string]) {
			cb("", boom)
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("only first callback counts", func(t *testing.T) {
		v, err := Promisify(func(cb Callback[int]) {
			cb(1, nil)
			cb(2, errors.New("second"))
		})
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
}

func TestAwait(t *testing.T) {
	boom := errors.New("boom")

	assert.NoError(t, Await(func(done func(error)) { go done(nil) }))
	assert.ErrorIs(t, Await(func(done func(error)) { done(boom) }), boom)
}

func TestSourceFromText(t *testing.T) {
	src := SourceFromText("héllo")

	_, seekable := src.(io.Seeker)
	assert.False(t, seekable)

	data, err := io.ReadAll(src)
	require.NoError(t, err)
	assert.Equal(t, []byte("héllo"), data)

	n, err := src.Read(make([]byte, 8))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)
}
