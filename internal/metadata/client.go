package metadata

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"mfek/internal/logging"
	mfekotel "mfek/internal/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client issues metadata queries against one companion.
type Client struct {
	invoker Invoker
	logger  *logging.Logger
	tracer  trace.Tracer
}

type ClientOption func(*Client)

func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTracerProvider(provider trace.TracerProvider) ClientOption {
	return func(c *Client) {
		c.tracer = mfekotel.Tracer(provider)
	}
}

func NewClient(invoker Invoker, opts ...ClientOption) *Client {
	client := &Client{
		invoker: invoker,
		logger:  logging.Discard(),
		tracer:  mfekotel.Tracer(nil),
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = client.logger.Named("metadata")
	return client
}

func (c *Client) run(ctx context.Context, font string, args ...string) ([]byte, error) {
	if font == "" {
		return nil, ErrNoFont
	}
	if ctx == nil {
		ctx = context.Background()
	}
	argv := append([]string{font}, args...)
	ctx, span := c.tracer.Start(ctx, "metadata.invoke", trace.WithAttributes(
		attribute.String("mfek.font", font),
		attribute.StringSlice("mfek.args", args),
	))
	defer span.End()

	c.logger.Debug("invoking metadata companion", map[string]string{"args": strings.Join(argv, " ")})
	output, err := c.invoker.Invoke(ctx, argv)
	if err != nil {
		c.logger.Error("metadata companion failed", map[string]string{"error": err.Error()})
		mfekotel.SetSpanStatus(ctx, err.Error())
		return nil, err
	}
	if !utf8.Valid(output) {
		c.logger.Error("metadata output is not valid UTF-8", nil)
		mfekotel.SetSpanStatus(ctx, ErrDecode.Error())
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrDecode)
	}
	span.SetAttributes(attribute.Int("mfek.output_bytes", len(output)))
	mfekotel.SetSpanStatus(ctx, "")
	return output, nil
}

// Arbitrary fetches the fontinfo values named by keys. The companion
// answers with one CSV row per key, in request order; the last field of
// each row is the value.
func (c *Client) Arbitrary(ctx context.Context, font string, keys ...string) (map[string]string, error) {
	c.logger.Debug("getting arbitrary keys", map[string]string{"keys": strings.Join(keys, ",")})
	args := []string{"arbitrary"}
	for _, key := range keys {
		args = append(args, "-k", key)
	}
	output, err := c.run(ctx, font, args...)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(output))
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		c.logger.Error("metadata output is not CSV", map[string]string{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(rows) != len(keys) {
		if len(keys) == 0 {
			c.logger.Warn("got nothing from metadata companion, font corrupt?", map[string]string{"font": font})
		} else {
			c.logger.Warn("metadata key count mismatch", map[string]string{
				"got":      strconv.Itoa(len(rows)),
				"expected": strconv.Itoa(len(keys)),
			})
		}
		return nil, fmt.Errorf("%w: got %d rows for %d keys", ErrSchemaMismatch, len(rows), len(keys))
	}

	values := make(map[string]string, len(keys))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("%w: empty row for %q", ErrSchemaMismatch, keys[i])
		}
		values[keys[i]] = row[len(row)-1]
	}
	return values, nil
}

// AscenderDescender returns the font's ascender and descender.
func (c *Client) AscenderDescender(ctx context.Context, font string) (float32, float32, error) {
	values, err := c.Arbitrary(ctx, font, "ascender", "descender")
	if err != nil {
		return 0, 0, err
	}
	ascender, err := parseFloat32(values["ascender"])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: ascender: %v", ErrDecode, err)
	}
	descender, err := parseFloat32(values["descender"])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: descender: %v", ErrDecode, err)
	}
	return ascender, descender, nil
}

func parseFloat32(value string) (float32, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
	if err != nil {
		return 0, err
	}
	return float32(parsed), nil
}
