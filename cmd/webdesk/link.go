package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/webdesk/webdesk/internal/session"
)

func printLinkUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk link <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  encode <name>       Encode a saved session as a shareable link payload")
	fmt.Fprintln(w, "  decode <payload>    Decode a link payload and print the session as JSON")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Pass '-' as the payload to read it from stdin.")
}

func runLink(args []string) int {
	if len(args) == 0 {
		printLinkUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "encode":
		return runLinkEncode(args[1:])
	case "decode":
		return runLinkDecode(args[1:])
	case "help", "-h", "--help":
		printLinkUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown link command: %s\n\n", args[0])
		printLinkUsage(os.Stderr)
		return 2
	}
}

func runLinkEncode(args []string) int {
	if len(args) != 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: webdesk link encode <name>")
		return 2
	}
	store, err := sessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	var st session.State
	if err := store.Get(args[0], &st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	encoded, err := session.Compress(st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(encoded)
	return 0
}

func runLinkDecode(args []string) int {
	if len(args) != 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: webdesk link decode <payload>")
		return 2
	}

	payload := args[0]
	if payload == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		payload = strings.TrimSpace(string(data))
	}

	st, err := session.Decompress(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}
