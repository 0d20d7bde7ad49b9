package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/davrell/tablegql/internal/cache"
	"github.com/davrell/tablegql/internal/document"
	"github.com/davrell/tablegql/internal/meta"
	"github.com/davrell/tablegql/internal/selection"
)

// Handler is an http.Handler for the document-compile endpoint. It
// parses compile requests, runs the document compiler (through the
// document cache), and writes the compiled request back as JSON.
type Handler struct {
	compiler *document.Compiler
	docs     *cache.Documents
	tracer   trace.Tracer
	opt      Options
}

type Options struct {
	// Timeout sets a default timeout if the incoming request context has none.
	// 0 means no default timeout.
	Timeout time.Duration

	// Pretty enables indented JSON responses (useful for dev).
	Pretty bool

	// MaxBodyBytes limits the size of the request body. 0 means unlimited.
	MaxBodyBytes int64

	// CacheSize and CacheTTL configure the compiled-document cache.
	CacheSize int
	CacheTTL  time.Duration
}

type Option func(*Options)

func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }
func WithPretty() Option                 { return func(o *Options) { o.Pretty = true } }
func WithMaxBodyBytes(n int64) Option    { return func(o *Options) { o.MaxBodyBytes = n } }
func WithCache(size int, ttl time.Duration) Option {
	return func(o *Options) { o.CacheSize = size; o.CacheTTL = ttl }
}

// New creates a compile handler over the given catalog. A nil registry
// falls back to the builtin expansion generators.
func New(catalog *meta.Catalog, registry *selection.Registry, opts ...Option) (*Handler, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	op := Options{Timeout: 10 * time.Second}
	for _, f := range opts {
		f(&op)
	}
	return &Handler{
		compiler: document.NewCompiler(catalog, registry),
		docs:     cache.New(op.CacheSize, op.CacheTTL),
		tracer:   otel.Tracer("tablegql"),
		opt:      op,
	}, nil
}

// CompileRequest is the wire form of one compile call.
type CompileRequest struct {
	Table     string                `json:"table"`
	Operation string                `json:"operation"`
	Select    *selection.Spec       `json:"select,omitempty"`
	Options   document.QueryOptions `json:"options,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := ctx.Deadline(); !ok && h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("method not allowed", "BAD_REQUEST"), h.opt.Pretty)
		return
	}

	req, perr := parseRequest(r, h.opt.MaxBodyBytes)
	if perr != nil {
		status := http.StatusBadRequest
		if perr.Error() == errBodyTooLargeMessage {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, errorResponse(perr.Error(), "BAD_REQUEST"), h.opt.Pretty)
		return
	}

	ctx, span := h.tracer.Start(ctx, "document.compile")
	span.SetAttributes(
		attribute.String("compile.table", req.Table),
		attribute.String("compile.operation", req.Operation),
	)
	compiled, err := h.compile(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.End()
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error(), errorKind(err)), h.opt.Pretty)
		return
	}
	span.End()

	writeJSON(w, http.StatusOK, compiled, h.opt.Pretty)
}

func (h *Handler) compile(ctx context.Context, req CompileRequest) (*document.Compiled, error) {
	key, err := cache.Key(req.Table, req.Operation, req.Select, req.Options)
	if err != nil {
		return nil, err
	}
	return h.docs.Load(key, func() (*document.Compiled, error) {
		switch req.Operation {
		case "query":
			return h.compiler.Query(req.Table, req.Select, req.Options)
		case "create":
			return h.compiler.Create(req.Table, document.MutationOptions{FieldSelection: req.Select})
		case "update":
			return h.compiler.Update(req.Table, document.MutationOptions{FieldSelection: req.Select})
		case "delete":
			return h.compiler.Delete(req.Table)
		default:
			return nil, errors.New("operation must be one of query, create, update, delete")
		}
	})
}

// ------------------ Request parsing ------------------

func parseRequest(r *http.Request, maxBody int64) (CompileRequest, error) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" && !startsWith(ct, "application/json;") {
		return CompileRequest{}, errors.New("unsupported Content-Type")
	}

	reader := io.Reader(r.Body)
	if maxBody > 0 {
		reader = io.LimitReader(r.Body, maxBody+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return CompileRequest{}, errors.New("failed to read body")
	}
	defer r.Body.Close()
	if maxBody > 0 && int64(len(body)) > maxBody {
		return CompileRequest{}, errors.New(errBodyTooLargeMessage)
	}

	var req CompileRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return CompileRequest{}, errors.New("invalid JSON: " + err.Error())
	}
	if req.Table == "" {
		return CompileRequest{}, errors.New("missing 'table'")
	}
	if req.Operation == "" {
		req.Operation = "query"
	}
	return req, nil
}

// ------------------ Response formatting ------------------

type compileError struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type errorResult struct {
	Errors []compileError `json:"errors"`
}

func errorResponse(message, kind string) errorResult {
	return errorResult{Errors: []compileError{{Message: message, Kind: kind}}}
}

// errorKind maps compiler error types to stable wire identifiers so UI
// callers can present them as the configuration bugs they are.
func errorKind(err error) string {
	var (
		ufe *selection.UnknownFieldError
		ure *selection.UnknownRelationError
		ute *selection.UnsupportedFieldTypeError
		urt *meta.UnknownRelatedTableError
		ioe *document.InvalidOptionsError
	)
	switch {
	case errors.As(err, &ufe):
		return "UNKNOWN_FIELD"
	case errors.As(err, &ure):
		return "UNKNOWN_RELATION"
	case errors.As(err, &urt):
		return "UNKNOWN_RELATED_TABLE"
	case errors.As(err, &ute):
		return "UNSUPPORTED_FIELD_TYPE"
	case errors.As(err, &ioe):
		return "INVALID_OPTIONS"
	default:
		return "BAD_REQUEST"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func startsWith(s, prefix string) bool { return len(s) >= len(prefix) && s[:len(prefix)] == prefix }

const errBodyTooLargeMessage = "body too large"
