/*
Cgrepl starts an interactive session for running lines of input against one
of combigram's registered example grammars.

Usage:

	cgrepl [flags]

The flags are:

	-v, --version
		Give the current version of combigram and then exit.

	-g, --grammar NAME
		Use the named registered grammar for the session. Defaults to
		"calculator". Do "LIST" in a session to see all registered grammars.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input, even if launched in a tty
		with stdin and stdout.

	-t, --tree
		Print the parse tree alongside the result on a successful parse.

Once a session has started, each line of input is tokenized and parsed
against the selected grammar. Type "LIST" to see the registered grammars,
"GRAMMAR NAME" to switch grammars mid-session, and "QUIT" to exit.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/internal/input"
	"github.com/dekarrin/combigram/internal/version"
	"github.com/dekarrin/combigram/ptree"
	"github.com/dekarrin/combigram/server/registry"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagGrammar = pflag.StringP("grammar", "g", "calculator", "The registered grammar to run input against")
	forceDirect = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	showTree    = pflag.BoolP("tree", "t", false, "Print the parse tree alongside the result")
)

type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	grammarName := *flagGrammar
	if _, ok := registry.Get(grammarName); !ok {
		fmt.Fprintf(os.Stderr, "ERROR: no grammar named %q is registered (try LIST once started)\n", grammarName)
		returnCode = ExitInitError
		return
	}

	reader, err := newReader()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer reader.Close()

	fmt.Printf("combigram REPL %s - grammar %q selected. Type LIST, GRAMMAR NAME, or QUIT.\n", version.Current, grammarName)

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		upper := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case upper == "QUIT":
			return
		case upper == "LIST":
			for _, name := range registry.Names() {
				entry, _ := registry.Get(name)
				fmt.Printf("  %s - %s\n", entry.Name, entry.Describe)
			}
			continue
		case strings.HasPrefix(upper, "GRAMMAR "):
			name := strings.TrimSpace(line[len("GRAMMAR "):])
			if _, ok := registry.Get(name); !ok {
				fmt.Printf("no grammar named %q is registered\n", name)
				continue
			}
			grammarName = name
			fmt.Printf("switched to grammar %q\n", grammarName)
			continue
		}

		runLine(grammarName, line)
	}
}

func runLine(grammarName, line string) {
	entry, _ := registry.Get(grammarName)
	toks := entry.Tokenize(line)
	start, result := entry.Build()

	var cursor int
	var tree *ptree.Tree
	if *showTree {
		tree = &ptree.Tree{}
	}

	if combigram.Parse(start, toks, &cursor, tree) {
		fmt.Printf("OK: %v\n", result())
		if *showTree {
			fmt.Println(tree.String())
		}
	} else {
		fmt.Printf("REJECTED at token %d\n", cursor)
	}
}

func newReader() (commandReader, error) {
	if !*forceDirect && isatty.IsTerminal(os.Stdin.Fd()) {
		r, err := input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("create interactive reader: %w", err)
		}
		r.AllowBlank(false)
		return r, nil
	}
	return input.NewDirectReader(os.Stdin), nil
}
