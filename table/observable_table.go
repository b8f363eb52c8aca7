package table

import (
	"context"
	"iter"
	"time"

	"github.com/hatlonely/minidb/log"
	"github.com/hatlonely/minidb/log/logger"
	"github.com/hatlonely/minidb/record"
	"github.com/hatlonely/minidb/ref"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/hatlonely/minidb/table"

type ObservableTableOptions struct {
	// Table 被包装的底层表，为空时使用 MemoryTable
	Table *ref.TypeOptions `cfg:"table"`

	// Logger 为空时使用 log.Default()
	Logger *ref.TypeOptions `cfg:"logger"`

	EnableMetrics bool `cfg:"enableMetrics" def:"true"`
	EnableLogging bool `cfg:"enableLogging" def:"true"`
	EnableTracing bool `cfg:"enableTracing" def:"false"`

	// Name 指标名前缀，同时作为日志和 span 的 component 属性
	Name string `cfg:"name" def:"minidb_table"`

	// 以下字段只能在代码中注入，Registerer 为空时注册到 prometheus.DefaultRegisterer
	Registerer     prometheus.Registerer `cfg:"-" validate:"-"`
	TracerProvider trace.TracerProvider  `cfg:"-" validate:"-"`
	Log            logger.Logger         `cfg:"-" validate:"-"`
}

type ObservableMetrics struct {
	operationCounter  *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	scanRows          prometheus.Histogram
	rows              prometheus.Gauge
}

// NewObservableMetrics 创建指标并注册到 registerer，同名指标已经注册时复用已有的
func NewObservableMetrics(name string, registerer prometheus.Registerer) (*ObservableMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	metrics := &ObservableMetrics{
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: name + "_operations_total",
				Help: "Total number of table operations",
			},
			[]string{"operation", "status"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name + "_operation_duration_seconds",
				Help:    "Duration of table operations in seconds",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
			},
			[]string{"operation"},
		),
		scanRows: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    name + "_scan_rows",
				Help:    "Number of rows yielded by a scan",
				Buckets: []float64{0, 1, 10, 100, 1000, 10000},
			},
		),
		rows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: name + "_rows",
				Help: "Number of rows in the table",
			},
		),
	}

	var err error
	if metrics.operationCounter, err = register(registerer, metrics.operationCounter); err != nil {
		return nil, err
	}
	if metrics.operationDuration, err = register(registerer, metrics.operationDuration); err != nil {
		return nil, err
	}
	if metrics.scanRows, err = register(registerer, metrics.scanRows); err != nil {
		return nil, err
	}
	if metrics.rows, err = register(registerer, metrics.rows); err != nil {
		return nil, err
	}

	return metrics, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, c C) (C, error) {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "register collector failed")
	}
	return c, nil
}

// ObservableTable 装饰器，为任意 Table 添加指标、日志和链路追踪
type ObservableTable struct {
	table Table

	logger        logger.Logger
	metrics       *ObservableMetrics
	tracer        trace.Tracer
	name          string
	enableMetrics bool
	enableLogging bool
	enableTracing bool
}

func NewObservableTableWithOptions(options *ObservableTableOptions) (*ObservableTable, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	t, err := NewTableWithOptions(options.Table)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create underlying table")
	}

	obs := &ObservableTable{
		table:         t,
		name:          options.Name,
		enableMetrics: options.EnableMetrics,
		enableLogging: options.EnableLogging,
		enableTracing: options.EnableTracing,
	}
	if obs.name == "" {
		obs.name = "minidb_table"
	}

	if options.EnableLogging {
		l := options.Log
		if l == nil {
			if l, err = log.NewLoggerWithOptions(options.Logger); err != nil {
				return nil, errors.WithMessage(err, "failed to create logger")
			}
		}
		obs.logger = l.WithGroup("observableTable")
	}

	if options.EnableMetrics {
		if obs.metrics, err = NewObservableMetrics(obs.name, options.Registerer); err != nil {
			return nil, errors.WithMessage(err, "failed to create metrics")
		}
		obs.metrics.rows.Set(float64(t.Len()))
	}

	if options.EnableTracing {
		tp := options.TracerProvider
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		obs.tracer = tp.Tracer(tracerName)
	}

	return obs, nil
}

func (obs *ObservableTable) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	if !obs.enableTracing {
		return ctx, nil
	}
	return obs.tracer.Start(ctx, "table."+operation, trace.WithAttributes(
		attribute.String("component", obs.name),
		attribute.String("operation", operation),
	))
}

// finish 统一记录 span 状态、指标和日志
func (obs *ObservableTable) finish(ctx context.Context, span trace.Span, operation string, start time.Time, err error, attrs ...any) {
	duration := time.Since(start)

	if span != nil {
		span.SetAttributes(attribute.Int64("duration_us", duration.Microseconds()))
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}

	if obs.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		obs.metrics.operationCounter.WithLabelValues(operation, status).Inc()
		obs.metrics.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
		obs.metrics.rows.Set(float64(obs.table.Len()))
	}

	if obs.logger != nil {
		args := append([]any{
			"component", obs.name,
			"operation", operation,
			"duration_us", duration.Microseconds(),
		}, attrs...)
		if err != nil {
			obs.logger.ErrorContext(ctx, "table operation failed", append(args, "error", err.Error())...)
		} else {
			obs.logger.InfoContext(ctx, "table operation completed", args...)
		}
	}
}

func (obs *ObservableTable) Append(ctx context.Context, rec record.Record) error {
	start := time.Now()
	ctx, span := obs.startSpan(ctx, "append")
	if span != nil {
		span.SetAttributes(attribute.Int("record.id", int(rec.ID)))
	}

	err := obs.table.Append(ctx, rec)
	obs.finish(ctx, span, "append", start, err, "id", rec.ID)
	return err
}

// Scan 在迭代时观测，中途 break 也会记录
func (obs *ObservableTable) Scan(ctx context.Context) iter.Seq[record.Record] {
	return func(yield func(record.Record) bool) {
		start := time.Now()
		ctx, span := obs.startSpan(ctx, "scan")

		n := 0
		for rec := range obs.table.Scan(ctx) {
			n++
			if !yield(rec) {
				break
			}
		}

		if span != nil {
			span.SetAttributes(attribute.Int("rows", n))
		}
		if obs.metrics != nil {
			obs.metrics.scanRows.Observe(float64(n))
		}
		obs.finish(ctx, span, "scan", start, nil, "rows", n)
	}
}

func (obs *ObservableTable) Len() int {
	return obs.table.Len()
}

func (obs *ObservableTable) Close() error {
	start := time.Now()
	ctx, span := obs.startSpan(context.Background(), "close")
	err := obs.table.Close()
	obs.finish(ctx, span, "close", start, err)
	return err
}
