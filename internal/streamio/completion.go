package streamio

import (
	"errors"
	"sync"
)

// ErrFailedWithoutCause is recorded when Fail is called with a nil error.
var ErrFailedWithoutCause = errors.New("failed without cause")

// Completion is a one-shot outcome: it settles exactly once, either
// finished or failed. Later Finish/Fail calls are ignored.
type Completion struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewCompletion creates an unsettled Completion.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Finish settles the completion successfully.
func (c *Completion) Finish() {
	c.settle(nil)
}

// Fail settles the completion with err.
func (c *Completion) Fail(err error) {
	if err == nil {
		err = ErrFailedWithoutCause
	}
	c.settle(err)
}

// Settle finishes when err is nil and fails otherwise.
func (c *Completion) Settle(err error) {
	if err == nil {
		c.Finish()
		return
	}
	c.Fail(err)
}

func (c *Completion) settle(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}

// Done is closed once the completion has settled.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the completion settles and returns its error.
// There is no timeout: a completion that is never settled never returns.
func (c *Completion) Wait() error {
	<-c.done
	return c.err
}

// Go runs fn on its own goroutine and returns a Completion settled with
// fn's result.
func Go(fn func() error) *Completion {
	c := NewCompletion()
	go func() {
		c.Settle(fn())
	}()
	return c
}

// Callback receives the outcome of an asynchronous call.
type Callback[T any] func(result T, err error)

type outcome[T any] struct {
	value T
	err   error
}

// Promisify invokes call with a callback and blocks until the callback
// fires, returning the first outcome it receives. Subsequent callback
// invocations are dropped.
func Promisify[T any](call func(cb Callback[T])) (T, error) {
	var once sync.Once
	ch := make(chan outcome[T], 1)
	call(func(result T, err error) {
		once.Do(func() {
			ch <- outcome[T]{value: result, err: err}
		})
	})
	o := <-ch
	return o.value, o.err
}

// Await is Promisify for calls that report only an error.
func Await(call func(done func(error))) error {
	_, err := Promisify(func(cb Callback[struct{}]) {
		call(func(err error) {
			cb(struct{}{}, err)
		})
	})
	return err
}
