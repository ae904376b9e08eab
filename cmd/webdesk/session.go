package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/webdesk/webdesk/internal/config"
	"github.com/webdesk/webdesk/internal/persist"
	"github.com/webdesk/webdesk/internal/runtimepath"
	"github.com/webdesk/webdesk/internal/session"
)

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk session <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list              List saved sessions")
	fmt.Fprintln(w, "  show <name>       Show a saved session summary")
	fmt.Fprintln(w, "  import <name>     Save a session snapshot read from stdin or --file")
	fmt.Fprintln(w, "  export <name>     Print a saved session as JSON")
	fmt.Fprintln(w, "  delete <name>     Delete a saved session")
}

func sessionStore() (*persist.FileStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return persist.NewFileStore(cfg.SessionsDir)
}

func runSession(args []string) int {
	if len(args) == 0 {
		printSessionUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "list":
		return runSessionList(args[1:])
	case "show":
		return runSessionShow(args[1:])
	case "import":
		return runSessionImport(args[1:])
	case "export":
		return runSessionExport(args[1:])
	case "delete":
		return runSessionDelete(args[1:])
	case "help", "-h", "--help":
		printSessionUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown session command: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
}

func runSessionList(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: webdesk session list")
		return 2
	}
	store, err := sessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	names, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(names) == 0 {
		fmt.Println("No saved sessions.")
		return 0
	}
	active, _ := runtimepath.ActiveSession()
	for _, name := range names {
		marker := " "
		if name == active {
			marker = "*"
		}
		var st session.State
		if err := store.Get(name, &st); err != nil {
			fmt.Printf("%s %-20s (unreadable: %v)\n", marker, name, err)
			continue
		}
		saved := time.UnixMilli(st.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("%s %-20s %2d windows  %2d apps  saved %s\n", marker, name, len(st.Windows), len(st.Apps), saved)
	}
	return 0
}

func runSessionShow(args []string) int {
	if len(args) != 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: webdesk session show <name>")
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

	saved := time.UnixMilli(st.Timestamp).Format("2006-01-02 15:04:05")
	fmt.Printf("Session:  %s\n", args[0])
	fmt.Printf("Version:  %s\n", st.Version)
	fmt.Printf("Saved:    %s\n", saved)
	if st.Desktop.Theme != "" {
		fmt.Printf("Theme:    %s\n", st.Desktop.Theme)
	}
	if st.Desktop.Wallpaper != "" {
		fmt.Printf("Wallpaper: %s\n", st.Desktop.Wallpaper)
	}
	fmt.Printf("Windows:  %d\n", len(st.Windows))
	for _, w := range st.Windows {
		marker := " "
		if w.ID == st.ActiveWindowID {
			marker = "*"
		}
		state := "normal"
		switch {
		case w.IsMinimized:
			state = "minimized"
		case w.IsMaximized:
			state = "maximized"
		}
		fmt.Printf(" %s %-14s %4dx%-4d @ (%d,%d)  z=%-3d %s\n",
			marker, w.AppID, w.Width, w.Height, w.X, w.Y, w.ZIndex, state)
	}
	return 0
}

func runSessionImport(args []string) int {
	fs := flag.NewFlagSet("session import", flag.ContinueOnError)
	file := fs.String("file", "", "Read the snapshot from a file instead of stdin")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk session import <name> [--file snapshot.json]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)

	var data []byte
	var err error
	if *file != "" {
		data, err = os.ReadFile(*file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var st session.State
	if err := json.Unmarshal(data, &st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid snapshot: %v\n", err)
		return 1
	}
	if st.Version == "" {
		fmt.Fprintln(os.Stderr, "Error: snapshot has no version")
		return 1
	}

	store, err := sessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := store.Put(name, st); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Saved session %q (%d windows).\n", name, len(st.Windows))
	return 0
}

func runSessionExport(args []string) int {
	if len(args) != 1 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: webdesk session export <name>")
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
	out, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func runSessionDelete(args []string) int {
	fs := flag.NewFlagSet("session delete", flag.ContinueOnError)
	force := fs.Bool("force", false, "Delete without confirmation")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: webdesk session delete <name> [--force]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)

	store, err := sessionStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !*force && term.IsTerminal(int(os.Stdin.Fd())) {
		var confirmed bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete session %q?", name)).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return 0
		}
	}

	if err := store.Delete(name); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("Deleted session %q.\n", name)
	return 0
}
