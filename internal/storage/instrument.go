package storage

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/timmy/gzblob/internal/metrics"
)

// instrumented records Prometheus metrics around every Remote call
type instrumented struct {
	Remote
}

// Instrument wraps remote so each primitive updates the storage metrics
func Instrument(remote Remote) Remote {
	return &instrumented{Remote: remote}
}

func observe(op string, start time.Time, status string) {
	metrics.StorageOperationsTotal.WithLabelValues(op, status).Inc()
	metrics.StorageOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

type countingReader struct {
	r io.Reader
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	metrics.UploadedBytesTotal.Add(float64(n))
	return n, err
}

func (i *instrumented) PutObject(ctx context.Context, name string, body io.Reader, opts PutOptions) error {
	start := time.Now()
	err := i.Remote.PutObject(ctx, name, &countingReader{r: body}, opts)
	observe("put", start, statusOf(err))
	return err
}

func (i *instrumented) GetObject(ctx context.Context, name string) (*Object, error) {
	return observeGet(ctx, "get", i.Remote, name)
}

// instrumentedReader records metrics for an ObjectReader used outside a Remote
type instrumentedReader struct {
	reader ObjectReader
	op     string
}

// InstrumentReader wraps a standalone reader, such as an HTTPReader, so its
// reads are counted under op.
func InstrumentReader(reader ObjectReader, op string) ObjectReader {
	return &instrumentedReader{reader: reader, op: op}
}

func (r *instrumentedReader) GetObject(ctx context.Context, name string) (*Object, error) {
	return observeGet(ctx, r.op, r.reader, name)
}

func observeGet(ctx context.Context, op string, reader ObjectReader, name string) (*Object, error) {
	start := time.Now()
	obj, err := reader.GetObject(ctx, name)
	status := statusOf(err)
	if err == nil && obj.Status != http.StatusOK {
		status = strconv.Itoa(obj.Status)
	}
	observe(op, start, status)
	return obj, err
}

func (i *instrumented) ListObjects(ctx context.Context, prefix, continuationToken string) (*ListPage, error) {
	start := time.Now()
	page, err := i.Remote.ListObjects(ctx, prefix, continuationToken)
	observe("list", start, statusOf(err))
	if err == nil {
		metrics.ListPagesTotal.Inc()
	}
	return page, err
}

func (i *instrumented) DeleteObject(ctx context.Context, name string) error {
	start := time.Now()
	err := i.Remote.DeleteObject(ctx, name)
	observe("delete", start, statusOf(err))
	return err
}

func (i *instrumented) CreateContainerIfAbsent(ctx context.Context, opts ContainerOptions) error {
	start := time.Now()
	err := i.Remote.CreateContainerIfAbsent(ctx, opts)
	observe("create_container", start, statusOf(err))
	return err
}

func (i *instrumented) SetCORS(ctx context.Context, rules []CORSRule) error {
	start := time.Now()
	err := i.Remote.SetCORS(ctx, rules)
	observe("set_cors", start, statusOf(err))
	return err
}
