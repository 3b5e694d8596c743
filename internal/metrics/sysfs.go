package metrics

import (
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smazurov/bbled/internal/sysfs"
)

// Operation label values.
const (
	OpRead  = "read"
	OpWrite = "write"
)

// FS is a sysfs.FileSystem that counts and times every operation of the
// file system it wraps.
type FS struct {
	next       sysfs.FileSystem
	operations *prometheus.CounterVec
	errors     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewFS wraps next and registers its collectors with reg.
func NewFS(next sysfs.FileSystem, reg prometheus.Registerer) *FS {
	factory := promauto.With(reg)
	return &FS{
		next: next,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sysfs",
			Name:      "operations_total",
			Help:      "Control-file operations by kind and file",
		}, []string{"op", "file"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sysfs",
			Name:      "errors_total",
			Help:      "Failed control-file operations by kind and file",
		}, []string{"op", "file"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "sysfs",
			Name:      "operation_duration_seconds",
			Help:      "Control-file operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"op"}),
	}
}

// ReadAll implements sysfs.FileSystem.
func (f *FS) ReadAll(path string) (string, error) {
	start := time.Now()
	content, err := f.next.ReadAll(path)
	f.observe(OpRead, path, start, err)
	return content, err
}

// WriteAll implements sysfs.FileSystem.
func (f *FS) WriteAll(path string, content []byte) error {
	start := time.Now()
	err := f.next.WriteAll(path, content)
	f.observe(OpWrite, path, start, err)
	return err
}

func (f *FS) observe(op, path string, start time.Time, err error) {
	file := filepath.Base(path)
	f.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	f.operations.WithLabelValues(op, file).Inc()
	if err != nil {
		f.errors.WithLabelValues(op, file).Inc()
	}
}
