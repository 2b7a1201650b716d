package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/config"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/fir"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/format"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/llm"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/mcp"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/store"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const defaultLLMSpec = "groq/llama-3.1-8b-instant"

// commonFlags holds flags shared across subcommands.
type commonFlags struct {
	db       string
	config   string
	llm      string
	district string
	schema   string
}

// splitCommon extracts the shared flags from args and returns the rest.
func splitCommon(args []string) (commonFlags, []string, error) {
	var c commonFlags
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		needsValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("flag %s requires a value", arg)
			}
			i++
			return args[i], nil
		}
		var err error
		switch arg {
		case "--db":
			c.db, err = needsValue()
		case "--config":
			c.config, err = needsValue()
		case "--llm":
			c.llm, err = needsValue()
		case "--district":
			c.district, err = needsValue()
		case "--schema":
			c.schema, err = needsValue()
		default:
			rest = append(rest, arg)
		}
		if err != nil {
			return c, nil, err
		}
	}
	return c, rest, nil
}

func resolve(c commonFlags) (config.ResolvedConfig, error) {
	return config.ResolveConfig(config.ResolveOptions{
		ConfigPath:  c.config,
		CLIDBPath:   c.db,
		CLISchema:   c.schema,
		CLIDistrict: c.district,
		CLILLM:      c.llm,
	})
}

func openStore(resolved config.ResolvedConfig) (store.Store, error) {
	return store.NewStore(store.Config{DBPath: resolved.DBPath.Value})
}

func loadTemplate(resolved config.ResolvedConfig) (schema.Tree, error) {
	if resolved.SchemaPath.Value != "" {
		return schema.LoadTemplate(resolved.SchemaPath.Value)
	}
	return schema.Template(), nil
}

// newProvider builds the LLM provider, or nil with a stderr warning
// when no usable provider is configured. Processing degrades rather
// than fails without one.
func newProvider(resolved config.ResolvedConfig) llm.Provider {
	spec := resolved.EffectiveLLM(defaultLLMSpec)
	cfg, err := llm.ParseProviderFlag(spec.Value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: invalid LLM spec %q: %v\n", spec.Value, err)
		return nil
	}
	cfg.APIKey = resolved.LLMAPIKey.Value
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; continuing without extraction\n", err)
		return nil
	}
	return provider
}

// readComplaint reads complaint text from a file, or stdin for "-".
func readComplaint(path string) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading complaint: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("complaint text is empty")
	}
	return text, nil
}

func districtOf(resolved config.ResolvedConfig) string {
	if resolved.District.Value != "" {
		return resolved.District.Value
	}
	return "Unknown"
}

func runProcess(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}

	sets := map[string]string{}
	var save, noLLM, asJSON bool
	var inputs []string
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--set":
			if i+1 >= len(rest) {
				return fmt.Errorf("--set requires path=value")
			}
			i++
			path, value, ok := strings.Cut(rest[i], "=")
			if !ok {
				return fmt.Errorf("invalid --set %q, want path=value", rest[i])
			}
			sets[path] = value
		case "--save":
			save = true
		case "--no-llm":
			noLLM = true
		case "--json":
			asJSON = true
		default:
			if strings.HasPrefix(rest[i], "-") && rest[i] != "-" {
				return fmt.Errorf("unknown flag: %s", rest[i])
			}
			inputs = append(inputs, rest[i])
		}
	}
	if len(inputs) != 1 {
		return fmt.Errorf("usage: firfill process <file|-> [--set path=value] [--save] [--no-llm] [--json]")
	}

	text, err := readComplaint(inputs[0])
	if err != nil {
		return err
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}
	template, err := loadTemplate(resolved)
	if err != nil {
		return err
	}

	var provider llm.Provider
	if !noLLM {
		provider = newProvider(resolved)
	}

	ctx := context.Background()
	session := fir.NewSession(template)
	session.Extract(ctx, provider, text)

	if errs := session.Correct(sets); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	}

	if missing := session.Missing(); len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing mandatory fields (%d):\n", len(missing))
		for _, m := range missing {
			fmt.Fprintf(os.Stderr, "  %-35s %s\n", m.Path(), m.Label())
		}
		if save {
			return fmt.Errorf("cannot save: %d mandatory fields missing (fill them with --set)", len(missing))
		}
	}

	if provider != nil {
		session.Summarize(ctx, provider)
	}

	if save {
		st, err := openStore(resolved)
		if err != nil {
			return err
		}
		defer st.Close()

		rec, report, err := fir.Finalize(ctx, st, session.Record, session.Summary, districtOf(resolved))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved record %d as %s\n", rec.ID, rec.FIRNumber)
		fmt.Println(report)
		return nil
	}

	if asJSON {
		out, err := session.ExportJSON(false)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	report, err := session.ExportReport()
	if err != nil {
		return err
	}
	fmt.Println(report)
	return nil
}

func runScan(args []string) error {
	_, rest, err := splitCommon(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: firfill scan <file|->")
	}
	text, err := readComplaint(rest[0])
	if err != nil {
		return err
	}

	result := fir.Scan(text)
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runRecords(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}

	opts := store.ListOpts{Limit: 20}
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--limit":
			if i+1 >= len(rest) {
				return fmt.Errorf("--limit requires a value")
			}
			i++
			if _, err := fmt.Sscanf(rest[i], "%d", &opts.Limit); err != nil {
				return fmt.Errorf("invalid --limit %q", rest[i])
			}
		case "--offset":
			if i+1 >= len(rest) {
				return fmt.Errorf("--offset requires a value")
			}
			i++
			if _, err := fmt.Sscanf(rest[i], "%d", &opts.Offset); err != nil {
				return fmt.Errorf("invalid --offset %q", rest[i])
			}
		case "--offense":
			if i+1 >= len(rest) {
				return fmt.Errorf("--offense requires a value")
			}
			i++
			opts.OffenseType = rest[i]
		default:
			return fmt.Errorf("unknown flag: %s", rest[i])
		}
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}
	opts.District = resolved.District.Value

	st, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRecords(context.Background(), opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}
	for _, r := range records {
		summary := r.Summary
		if len(summary) > 70 {
			summary = summary[:70] + "..."
		}
		fmt.Printf("%-16s %-12s %-12s %s\n", r.FIRNumber, r.District, r.OffenseType, r.CreatedAt.Format("2006-01-02"))
		if summary != "" {
			fmt.Printf("    %s\n", summary)
		}
	}
	return nil
}

func runExport(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}

	asJSON := false
	var firNumber string
	for _, arg := range rest {
		switch {
		case arg == "--json":
			asJSON = true
		case strings.HasPrefix(arg, "-"):
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			firNumber = arg
		}
	}
	if firNumber == "" {
		return fmt.Errorf("usage: firfill export <fir-number> [--json]")
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.GetRecordByFIRNumber(context.Background(), firNumber)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("no record with FIR number %s", firNumber)
	}

	if asJSON {
		fmt.Println(rec.RecordJSON)
		return nil
	}

	var record schema.Tree
	if err := json.Unmarshal([]byte(rec.RecordJSON), &record); err != nil {
		return fmt.Errorf("decoding stored record: %w", err)
	}
	pretty, err := format.ToJSON(record, true)
	if err != nil {
		return err
	}
	summary := rec.Summary
	if summary == "" {
		summary = "(no summary generated)"
	}
	fmt.Println(format.Report(summary, pretty, rec.CreatedAt))
	return nil
}

func runStats(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unknown argument: %s", rest[0])
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Records:  %d\n", stats.RecordCount)
	if len(stats.ByOffenseType) > 0 {
		fmt.Println("By offense type:")
		for typ, n := range stats.ByOffenseType {
			fmt.Printf("  %-15s %d\n", typ, n)
		}
	}
	if stats.DBSizeBytes > 0 {
		fmt.Printf("DB size:  %.1f KB\n", float64(stats.DBSizeBytes)/1024)
	}
	return nil
}

func runServe(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unknown argument: %s", rest[0])
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}
	st, err := openStore(resolved)
	if err != nil {
		return err
	}
	defer st.Close()

	template, err := loadTemplate(resolved)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Store:    st,
		Provider: newProvider(resolved),
		Template: template,
		District: districtOf(resolved),
		Version:  version,
	})

	fmt.Fprintln(os.Stderr, "firfill MCP server listening on stdio")
	return mcpserver.ServeStdio(srv)
}

func runConfig(args []string) error {
	c, rest, err := splitCommon(args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("unknown argument: %s", rest[0])
	}

	resolved, err := resolve(c)
	if err != nil {
		return err
	}

	// Never print the API key itself, only where it came from.
	if resolved.LLMAPIKey.Value != "" {
		resolved.LLMAPIKey.Value = "(set)"
	}

	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
