// ohashrepl is an interactive shell for exercising an ohash.Map by hand.
//
// Usage:
//
//	ohashrepl [-c capacity] [-l load-factor]
//
// Commands (in REPL):
//
//	set <key> <value>      Insert or overwrite an entry
//	add <key> <value>      Insert only if key is absent
//	get <key>               Look up an entry
//	del <key>               Remove an entry
//	replace <key> <value>  Overwrite only if key is already present
//	scan [limit]            List entries (unordered)
//	len                     Count live entries
//	resize <capacity>       Grow or shrink the table
//	bulk <count> [prefix]   Insert N random entries
//	bench <count>           Benchmark set+get performance
//	clear                   Remove every entry
//	help                    Show this help
//	exit / quit / q         Exit
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ohash/internal/ohashcli"
	"github.com/calvinalkan/ohash/pkg/ohash"
	"github.com/calvinalkan/ohash/pkg/ohash/ohashhash"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("ohashrepl", flag.ContinueOnError)

	capacity := fs.Uint64P("capacity", "c", 16, "initial table capacity")
	loadFactor := fs.Float64P("load-factor", "l", 0, "load factor ceiling (0 keeps the default 0.77)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: ohashrepl [options]")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	cfg := ohash.DefaultConfig()

	if *loadFactor > 0 {
		cfg.LoadFactor = *loadFactor
	}

	m, err := ohash.NewMap[string, string](cfg, ohashhash.String, ohashhash.IdentityEqual[string])
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	if *capacity > 0 {
		if err := m.Resize(*capacity); err != nil {
			return fmt.Errorf("sizing initial table: %w", err)
		}
	}

	repl := newREPL(m, *capacity)

	return repl.Run()
}

// REPL is the interactive command loop, grounded on cmd/sloty's liner-based
// REPL structure. Each shell command is an ohashcli.Command, dispatched the
// same way the CLI dispatches its own top-level commands.
type REPL struct {
	m               *ohash.Map[string, string]
	initialCapacity uint64
	liner           *liner.State
	io              *ohashcli.IO
	commands        map[string]*ohashcli.Command
	order           []string
}

func newREPL(m *ohash.Map[string, string], initialCapacity uint64) *REPL {
	r := &REPL{
		m:               m,
		initialCapacity: initialCapacity,
		io:              ohashcli.NewIO(os.Stdout, os.Stderr),
	}

	r.commands = map[string]*ohashcli.Command{
		"set":     noFlagsCommand("set <key> <value>", "Insert or overwrite an entry", r.cmdSet),
		"add":     noFlagsCommand("add <key> <value>", "Insert only if key is absent", r.cmdAdd),
		"get":     noFlagsCommand("get <key>", "Look up an entry", r.cmdGet),
		"del":     noFlagsCommand("del <key>", "Remove an entry", r.cmdDelete),
		"replace": noFlagsCommand("replace <key> <value>", "Overwrite only if key is already present", r.cmdReplace),
		"scan":    noFlagsCommand("scan [limit]", "List entries (unordered)", r.cmdScan),
		"len":     noFlagsCommand("len", "Count live entries", r.cmdLen),
		"resize":  noFlagsCommand("resize <capacity>", "Grow or shrink the table", r.cmdResize),
		"bulk":    noFlagsCommand("bulk <count> [prefix]", "Insert N random entries", r.cmdBulk),
		"bench":   noFlagsCommand("bench <count>", "Benchmark set+get performance", r.cmdBench),
		"clear":   noFlagsCommand("clear", "Remove every entry", r.cmdClear),
	}

	r.order = []string{"set", "add", "get", "del", "replace", "scan", "len", "resize", "bulk", "bench", "clear"}

	// Aliases share the same *Command so help text and dispatch stay in sync.
	r.commands["delete"] = r.commands["del"]
	r.commands["remove"] = r.commands["del"]
	r.commands["ls"] = r.commands["scan"]
	r.commands["list"] = r.commands["scan"]
	r.commands["count"] = r.commands["len"]
	r.commands["cls"] = r.commands["clear"]

	return r
}

// noFlagsCommand builds a Command for a REPL verb that takes no pflag-style
// flags, only positional arguments.
func noFlagsCommand(usage, short string, exec func(ctx context.Context, o *ohashcli.IO, args []string) error) *ohashcli.Command {
	return &ohashcli.Command{
		Flags: flag.NewFlagSet(usage, flag.ContinueOnError),
		Usage: usage,
		Short: short,
		Exec:  exec,
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".ohashrepl_history")
}

func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	r.io.Printf("ohashrepl - in-memory ohash.Map CLI (initial capacity=%d)\n", r.initialCapacity)
	r.io.Println("Type 'help' for available commands.")
	r.io.Println()

	ctx := context.Background()

	for {
		line, err := r.liner.Prompt("ohash> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				r.io.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		name := strings.ToLower(parts[0])
		args := parts[1:]

		switch name {
		case "exit", "quit", "q":
			r.io.Println("Bye!")
			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		default:
			cmd, ok := r.commands[name]
			if !ok {
				r.io.Printf("Unknown command: %s (type 'help' for commands)\n", name)
				continue
			}

			cmd.Run(ctx, r.io, args)
		}
	}

	r.saveHistory()

	return nil
}

func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (r *REPL) completer(line string) []string {
	names := make([]string, 0, len(r.commands)+4)
	for name := range r.commands {
		names = append(names, name)
	}

	names = append(names, "help", "exit", "quit", "q")

	var completions []string

	lower := strings.ToLower(line)
	for _, name := range names {
		if strings.HasPrefix(name, lower) {
			completions = append(completions, name)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	r.io.Println("Commands:")

	for _, name := range r.order {
		r.io.Println(r.commands[name].HelpLine())
	}

	r.io.Println("  help                   Show this help")
	r.io.Println("  exit / quit / q        Exit")
}

func (r *REPL) cmdSet(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 2 {
		o.Println("Usage: set <key> <value>")
		return nil
	}

	prev, status, err := r.m.Set(args[0], args[1])
	if err != nil {
		o.Printf("Error: %v\n", err)
		return nil
	}

	if status == ohash.StatusPresent {
		o.Printf("OK: overwrote %q (was %q)\n", args[0], prev)
	} else {
		o.Printf("OK: inserted %q\n", args[0])
	}

	return nil
}

func (r *REPL) cmdAdd(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 2 {
		o.Println("Usage: add <key> <value>")
		return nil
	}

	existing, status, err := r.m.Add(args[0], args[1])
	if err != nil {
		o.Printf("Error: %v\n", err)
		return nil
	}

	if status == ohash.StatusPresent {
		o.Printf("unchanged: %q already holds %q\n", args[0], existing)
	} else {
		o.Printf("OK: inserted %q\n", args[0])
	}

	return nil
}

func (r *REPL) cmdGet(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 1 {
		o.Println("Usage: get <key>")
		return nil
	}

	const missing = "\x00missing\x00"

	val := r.m.Get(args[0], missing)
	if val == missing {
		o.Println("(not found)")
		return nil
	}

	o.Println(val)

	return nil
}

func (r *REPL) cmdDelete(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 1 {
		o.Println("Usage: del <key>")
		return nil
	}

	_, val, ok := r.m.Remove(args[0])
	if !ok {
		o.Printf("OK: %q did not exist\n", args[0])
		return nil
	}

	o.Printf("OK: deleted %q (was %q)\n", args[0], val)

	return nil
}

func (r *REPL) cmdReplace(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 2 {
		o.Println("Usage: replace <key> <value>")
		return nil
	}

	prev, ok := r.m.Replace(args[0], args[1])
	if !ok {
		o.Printf("(not found: %q)\n", args[0])
		return nil
	}

	o.Printf("OK: replaced %q (was %q)\n", args[0], prev)

	return nil
}

func (r *REPL) cmdScan(_ context.Context, o *ohashcli.IO, args []string) error {
	limit := 20

	if len(args) >= 1 {
		var err error

		limit, err = strconv.Atoi(args[0])
		if err != nil {
			o.Printf("Error parsing limit: %v\n", err)
			return nil
		}
	}

	i := 0

	for k, v := range r.m.All() {
		if i >= limit {
			o.Printf("... (showing first %d, use 'scan <limit>' for more)\n", limit)
			return nil
		}

		o.Printf("%3d. %q => %q\n", i+1, k, v)
		i++
	}

	if i == 0 {
		o.Println("(empty)")
	}

	return nil
}

func (r *REPL) cmdLen(_ context.Context, o *ohashcli.IO, _ []string) error {
	o.Printf("Live entries: %d\n", r.m.Len())
	return nil
}

func (r *REPL) cmdResize(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 1 {
		o.Println("Usage: resize <capacity>")
		return nil
	}

	capacity, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		o.Printf("Error parsing capacity: %v\n", err)
		return nil
	}

	if err := r.m.Resize(capacity); err != nil {
		o.Printf("Error: %v\n", err)
		return nil
	}

	o.Printf("OK: resized to capacity %d\n", capacity)

	return nil
}

func (r *REPL) cmdBulk(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 1 {
		o.Println("Usage: bulk <count> [prefix]")
		return nil
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		o.Println("Error: count must be a positive integer")
		return nil
	}

	prefix := ""
	if len(args) >= 2 {
		prefix = args[1]
	}

	start := time.Now()

	for i := range count {
		suffix := make([]byte, 4)
		rand.Read(suffix)

		key := prefix + hex.EncodeToString(suffix)

		if _, _, err := r.m.Set(key, strconv.Itoa(i)); err != nil {
			o.Printf("Error at entry %d: %v\n", i+1, err)
			return nil
		}
	}

	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	o.Printf("OK: inserted %d entries in %v (%.0f ops/sec)\n", count, elapsed.Round(time.Millisecond), rate)

	return nil
}

func (r *REPL) cmdBench(_ context.Context, o *ohashcli.IO, args []string) error {
	if len(args) < 1 {
		o.Println("Usage: bench <count>")
		return nil
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		o.Println("Error: count must be a positive integer")
		return nil
	}

	keys := make([]string, count)
	for i := range count {
		suffix := make([]byte, 8)
		rand.Read(suffix)
		keys[i] = hex.EncodeToString(suffix)
	}

	o.Printf("Benchmarking %d operations...\n", count)

	setStart := time.Now()

	for i, key := range keys {
		if _, _, err := r.m.Set(key, strconv.Itoa(i)); err != nil {
			o.Printf("Error at set %d: %v\n", i+1, err)
			return nil
		}
	}

	setElapsed := time.Since(setStart)

	getStart := time.Now()
	hits := 0

	const missing = "\x00missing\x00"

	for _, key := range keys {
		if r.m.Get(key, missing) != missing {
			hits++
		}
	}

	getElapsed := time.Since(getStart)

	o.Println()
	o.Printf("Results:\n")
	o.Printf("  Sets:  %d ops in %v (%.0f ops/sec)\n",
		count, setElapsed.Round(time.Millisecond), float64(count)/setElapsed.Seconds())
	o.Printf("  Gets:  %d ops in %v (%.0f ops/sec), %d hits\n",
		count, getElapsed.Round(time.Millisecond), float64(count)/getElapsed.Seconds(), hits)

	return nil
}

func (r *REPL) cmdClear(_ context.Context, o *ohashcli.IO, _ []string) error {
	r.m.Clear()
	o.Println("OK: cleared")

	return nil
}
