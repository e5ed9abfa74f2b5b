// Package main is a terminal client for the Mongo Viewer gateway.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/mongo-viewer/internal/pkg/logger"
	"github.com/unifiedui/mongo-viewer/internal/viewer"
)

const helpText = `commands:
  connect <uri>       open a session on the gateway and list databases
  dbs                 list databases
  use <database>      list collections of a database
  open <collection>   show the first page of documents
  stats               show statistics of the open collection
  status              show the current navigation state
  health              show whether the gateway holds a session
  disconnect          reset the view
  help                show this help
  quit                exit`

func main() {
	baseURL := flag.String("api", viewer.DefaultBaseURL, "gateway API base URL")
	limit := flag.Int64("limit", viewer.DefaultPageLimit, "documents per page")
	closeServer := flag.Bool("close-server-session", false, "also close the gateway session on disconnect")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.SetupWithWriter(os.Stderr, *logLevel, "console")

	client := viewer.NewClient(&viewer.ClientConfig{BaseURL: *baseURL})
	browser := viewer.NewBrowser(client, viewer.Options{
		PageLimit:          *limit,
		CloseServerSession: *closeServer,
	})

	r := &repl{
		client:  client,
		browser: browser,
		out:     os.Stdout,
		timeout: *timeout,
	}
	if err := r.run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("reading input")
	}
}

type repl struct {
	client  *viewer.Client
	browser *viewer.Browser
	out     io.Writer
	timeout time.Duration
}

func (r *repl) run(in io.Reader) error {
	fmt.Fprintln(r.out, "MongoDB Viewer. Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, r.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		r.dispatch(cmd, arg)
	}
}

func (r *repl) prompt() string {
	view := r.browser.View()
	switch {
	case view.SelectedCollection != "":
		return view.SelectedDatabase + "." + view.SelectedCollection + "> "
	case view.SelectedDatabase != "":
		return view.SelectedDatabase + "> "
	default:
		return "> "
	}
}

func (r *repl) dispatch(cmd, arg string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	switch cmd {
	case "use", "open":
		if arg == "" {
			fmt.Fprintf(r.out, "usage: %s <name>\n", cmd)
			return
		}
	}

	var err error
	switch cmd {
	case "connect":
		if err = r.browser.Connect(ctx, arg); err == nil {
			r.printDatabases()
		}
	case "dbs":
		r.printDatabases()
	case "use":
		if err = r.browser.SelectDatabase(ctx, arg); err == nil {
			r.printCollections()
		}
	case "open":
		if err = r.browser.SelectCollection(ctx, arg); err == nil {
			r.printDocuments()
		}
	case "stats":
		stats, statsErr := r.browser.Stats(ctx)
		if err = statsErr; err == nil {
			r.printJSON(stats)
		}
	case "status":
		r.printStatus()
	case "health":
		health, healthErr := r.client.Health(ctx)
		if healthErr != nil {
			fmt.Fprintln(r.out, "error:", healthErr)
			return
		}
		fmt.Fprintf(r.out, "gateway %s, connected: %t\n", health.Status, health.Connected)
	case "disconnect":
		err = r.browser.Disconnect(ctx)
		if err == nil {
			fmt.Fprintln(r.out, "disconnected")
		}
	case "help":
		fmt.Fprintln(r.out, helpText)
	default:
		fmt.Fprintf(r.out, "unknown command %q, type 'help'\n", cmd)
		return
	}

	if err != nil {
		msg := r.browser.LastError()
		if msg == "" {
			msg = err.Error()
		}
		fmt.Fprintln(r.out, "error:", msg)
	}
}

func (r *repl) printDatabases() {
	view := r.browser.View()
	if view.State == viewer.StateDisconnected {
		fmt.Fprintln(r.out, "not connected")
		return
	}
	fmt.Fprintf(r.out, "Databases (%d)\n", len(view.Databases))
	for _, db := range view.Databases {
		marker := " "
		if db.Name == view.SelectedDatabase {
			marker = "*"
		}
		fmt.Fprintf(r.out, " %s %-30s %s\n", marker, db.Name, formatBytes(db.SizeOnDisk))
	}
}

func (r *repl) printCollections() {
	view := r.browser.View()
	fmt.Fprintf(r.out, "Collections in %s (%d)\n", view.SelectedDatabase, len(view.Collections))
	for _, c := range view.Collections {
		fmt.Fprintf(r.out, "   %-30s %s\n", c.Name, c.Type)
	}
}

func (r *repl) printDocuments() {
	view := r.browser.View()
	fmt.Fprintf(r.out, "Documents in %s.%s (%d of %d)\n",
		view.SelectedDatabase, view.SelectedCollection, len(view.Documents), view.TotalCount)
	for _, doc := range view.Documents {
		var buf bytes.Buffer
		if err := json.Indent(&buf, doc, "", "  "); err != nil {
			fmt.Fprintln(r.out, string(doc))
			continue
		}
		fmt.Fprintln(r.out, buf.String())
	}
}

func (r *repl) printStatus() {
	view := r.browser.View()
	fmt.Fprintf(r.out, "state: %s\n", view.State)
	if view.SelectedDatabase != "" {
		fmt.Fprintf(r.out, "database: %s\n", view.SelectedDatabase)
	}
	if view.SelectedCollection != "" {
		fmt.Fprintf(r.out, "collection: %s\n", view.SelectedCollection)
	}
	if view.LastError != "" {
		fmt.Fprintf(r.out, "last error: %s\n", view.LastError)
	}
}

func (r *repl) printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
		return
	}
	fmt.Fprintln(r.out, string(data))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
