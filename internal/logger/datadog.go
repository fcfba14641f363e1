package logger

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/rs/zerolog"
)

const defaultDataDogTimeout = 5 * time.Second

// logSubmitter is the part of the datadog logs api the writer needs.
type logSubmitter interface {
	SubmitLog(
		ctx context.Context,
		body []datadogV2.HTTPLogItem,
		o ...datadogV2.SubmitLogOptionalParameters,
	) (interface{}, *http.Response, error)
}

// DataDogWriter ships warn and higher log lines to the Datadog logs api.
// Lower levels are dropped, they stay on the console and file writers.
type DataDogWriter struct {
	api      logSubmitter
	ctx      context.Context //nolint:containedctx // carries the datadog api keys
	timeout  time.Duration
	service  string
	hostname string
	tags     string
}

// NewDataDogWriter creates a zerolog level writer for the configured Datadog site.
func NewDataDogWriter(cfg Log) *DataDogWriter {
	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{
			"apiKeyAuth": {Key: cfg.DataDog.APIKey},
		},
	)

	if cfg.DataDog.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{
			"site": cfg.DataDog.Site,
		})
	}

	service := cfg.DataDog.ServiceName
	if service == "" {
		service = cfg.ServiceName
	}

	timeout := cfg.DataDog.Timeout
	if timeout <= 0 {
		timeout = defaultDataDogTimeout
	}

	hostname, _ := os.Hostname()

	conf := datadog.NewConfiguration()
	if len(cfg.DataDog.Servers) > 0 {
		conf.Servers = cfg.DataDog.Servers
	}

	return &DataDogWriter{
		api:      datadogV2.NewLogsApi(datadog.NewAPIClient(conf)),
		ctx:      ctx,
		timeout:  timeout,
		service:  service,
		hostname: hostname,
		tags:     "env:" + cfg.LogEnv + ",app:" + cfg.AppName,
	}
}

// Write implements io.Writer. Lines without a level are forwarded.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *DataDogWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l < zerolog.WarnLevel && l != zerolog.NoLevel {
		return len(p), nil
	}

	if w.api == nil {
		return len(p), nil
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	item := datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString("zerolog"),
		Ddtags:   datadog.PtrString(w.tags),
		Hostname: datadog.PtrString(w.hostname),
		Message:  string(p),
		Service:  datadog.PtrString(w.service),
	}

	// a failed shipment must never break the caller's log statement
	_, resp, err := w.api.SubmitLog(ctx, []datadogV2.HTTPLogItem{item})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		ErrorHandler(err)
	}

	return len(p), nil
}
