package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "process":
		err = runProcess(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	case "records":
		err = runRecords(os.Args[2:])
	case "export":
		err = runExport(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("firfill %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`firfill %s — FIR complaint intake and structured extraction

Usage:
  firfill <command> [arguments]

Commands:
  process <file|->     Process a complaint: extract, validate, summarize
  scan <file|->        Run rule-based extractors over complaint text
  records              List persisted FIR records
  export <fir-number>  Print a stored record as a report or JSON
  stats                Show archive statistics
  serve                Start the MCP server on stdio
  config               Show resolved configuration and value sources
  version              Print version

Process Flags:
  --set path=value     Fill a field before validation (repeatable)
  --save               Persist the record and allocate a FIR number
  --no-llm             Skip LLM calls; rule-based scan and template only
  --json               Print the record as JSON instead of a report

Common Flags:
  --db <path>          Database path (default ~/.firfill/firfill.db)
  --config <path>      Config file path (default ~/.firfill/config.yaml)
  --llm <spec>         LLM provider, e.g. groq or google/gemini-2.5-flash
  --district <name>    District for FIR number allocation
  --schema <path>      Custom FIR schema template (JSON)
  -h, --help           Show this help message
  -v, --version        Print version

A complaint file of "-" reads from standard input.
`, version)
}
