package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "session":
		os.Exit(runSession(os.Args[2:]))
	case "link":
		os.Exit(runLink(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  session list        List saved sessions")
	fmt.Fprintln(w, "  session show        Show a saved session")
	fmt.Fprintln(w, "  session import      Save a session snapshot from JSON")
	fmt.Fprintln(w, "  session export      Print a saved session as JSON")
	fmt.Fprintln(w, "  session delete      Delete a saved session")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  link encode         Encode a saved session as a shareable link payload")
	fmt.Fprintln(w, "  link decode         Decode a link payload to JSON")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the session inspector")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'webdesk <command> --help' for command-specific options.")
}
