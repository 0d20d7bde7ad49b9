package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/davrell/tablegql/internal/document"
	"github.com/davrell/tablegql/internal/meta"
	"github.com/davrell/tablegql/internal/otel"
	"github.com/davrell/tablegql/internal/selection"
	"github.com/davrell/tablegql/internal/server"
)

const rootUsage = `tablegql — table metadata → GraphQL document compiler

USAGE:
  tablegql <command> [flags]

COMMANDS:
  serve            Run the HTTP compile service
  compile-query    Compile a query document for a table
  compile-create   Compile a create mutation document for a table
  compile-update   Compile an update mutation document for a table
  compile-delete   Compile a delete mutation document for a table
  help             Show help for any command
`

const serveUsage = `serve FLAGS:
  -catalog <path>            Catalog file or directory (required)
  -server.addr <addr>        HTTP listen address (default: :8080)
  -server.pretty             Pretty-print JSON responses
  -server.timeout <duration> Per-request timeout, e.g. 10s (default: 10s)
  -cache.size <n>            Compiled document cache size (default: 256)
  -cache.ttl <duration>      Compiled document cache TTL (default: 5m)
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: tablegql)
`

const compileUsage = `%s FLAGS:
  -catalog <path>  Catalog file or directory (required)
  -table <name>    Table name (required)
  -select <json>   Selection spec, e.g. '{"id": true}' (default: all fields)
%s  -out <file>      Write compiled document to file (default: stdout)
`

const queryOptionsHelp = `  -options <json>  Query options, e.g. '{"limit": 20, "orderBy": ["NAME_ASC"]}'
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	global := flag.NewFlagSet("tablegql", flag.ContinueOnError)
	global.SetOutput(new(bytes.Buffer)) // silence automatic output
	if err := global.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, rootUsage)
		return err
	}
	remaining := global.Args()
	if len(remaining) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := remaining[0]
	cmdArgs := remaining[1:]
	switch cmd {
	case "serve":
		return cmdServe(cmdArgs)
	case "compile-query", "compile-create", "compile-update", "compile-delete":
		return cmdCompile(cmd, cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "serve":
		fmt.Print(serveUsage)
	case "compile-query":
		fmt.Printf(compileUsage, "compile-query", queryOptionsHelp)
	case "compile-create", "compile-update", "compile-delete":
		fmt.Printf(compileUsage, args[0], "")
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func loadCatalog(path string) (*meta.Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("-catalog is required")
	}
	catalog, err := meta.NewFileSource(path).Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog, nil
}

func cmdCompile(cmd string, args []string) error {
	catalogPath := ""
	table := ""
	selectJSON := ""
	optionsJSON := ""
	outFile := ""

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&catalogPath, "catalog", catalogPath, "Catalog file or directory")
	fs.StringVar(&table, "table", table, "Table name")
	fs.StringVar(&selectJSON, "select", selectJSON, "Selection spec")
	if cmd == "compile-query" {
		fs.StringVar(&optionsJSON, "options", optionsJSON, "Query options")
	}
	fs.StringVar(&outFile, "out", outFile, "Write compiled document to file")
	if err := fs.Parse(args); err != nil {
		printCompileUsage(cmd)
		return err
	}
	if table == "" {
		printCompileUsage(cmd)
		return fmt.Errorf("-table is required")
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	var spec *selection.Spec
	if selectJSON != "" {
		spec = selection.New()
		if err := json.Unmarshal([]byte(selectJSON), spec); err != nil {
			return fmt.Errorf("parse -select: %w", err)
		}
	}

	compiler := document.NewCompiler(catalog, nil)
	var compiled *document.Compiled
	switch cmd {
	case "compile-query":
		var opts document.QueryOptions
		if optionsJSON != "" {
			if err := json.Unmarshal([]byte(optionsJSON), &opts); err != nil {
				return fmt.Errorf("parse -options: %w", err)
			}
		}
		compiled, err = compiler.Query(table, spec, opts)
	case "compile-create":
		compiled, err = compiler.Create(table, document.MutationOptions{FieldSelection: spec})
	case "compile-update":
		compiled, err = compiler.Update(table, document.MutationOptions{FieldSelection: spec})
	case "compile-delete":
		compiled, err = compiler.Delete(table)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(compiled, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if outFile == "" {
		fmt.Print(string(out))
		return nil
	}
	return os.WriteFile(outFile, out, 0644)
}

func printCompileUsage(cmd string) {
	optionsHelp := ""
	if cmd == "compile-query" {
		optionsHelp = queryOptionsHelp
	}
	fmt.Fprintf(os.Stderr, compileUsage, cmd, optionsHelp)
}

func cmdServe(args []string) error {
	catalogPath := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	cacheSize := 256
	cacheTTL := 5 * time.Minute
	otelEndpoint := ""
	otelService := "tablegql"

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&catalogPath, "catalog", catalogPath, "Catalog file or directory")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.IntVar(&cacheSize, "cache.size", cacheSize, "Compiled document cache size")
	fs.DurationVar(&cacheTTL, "cache.ttl", cacheTTL, "Compiled document cache TTL")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	catalog, err := loadCatalog(catalogPath)
	if err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}

	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sopts := []server.Option{server.WithCache(cacheSize, cacheTTL)}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	h, err := server.New(catalog, nil, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/compile", h)

	log.Printf("compile service listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
