package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	babyduck "github.com/xirelogy/go-babyduck"
)

const (
	appName     = "babyduck"
	historyFile = ".babyduck_history"
	promptMain  = "==> "
	promptCont  = "... "
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "build":
		os.Exit(cmdBuild(os.Args[2:]))
	case "exec":
		os.Exit(cmdExec(os.Args[2:]))
	case "disasm":
		os.Exit(cmdDisasm(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`BabyDuck compiler and virtual machine

Usage:
  %s run <file.bd>              Compile and execute a source file.
  %s build [-o out] <file.bd>   Compile to an object program (.obj).
  %s exec <file.obj>            Execute a compiled object program.
  %s disasm <file.bd|file.obj>  Print the quadruple listing.
  %s repl                       Interactive session; finish a program with 'end'.

`, appName, appName, appName, appName, appName)
}

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.bd>\n", appName)
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}
	if err := babyduck.Run(string(src), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func cmdBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	out := fs.String("o", "", "output path (default: source with .obj extension)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s build [-o out.obj] <file.bd>\n", appName)
		return 2
	}
	path := fs.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}
	prog, err := babyduck.Compile(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	target := *out
	if target == "" {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + ".obj"
	}
	f, err := os.Create(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot create %s: %v\n", appName, target, err)
		return 1
	}
	defer f.Close()
	if err := prog.Encode(f); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", appName, target, err)
		return 1
	}
	return 0
}

func cmdExec(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s exec <file.obj>\n", appName)
		return 2
	}
	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, args[0], err)
		return 1
	}
	defer f.Close()

	prog, err := babyduck.Decode(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	if err := prog.Execute(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func cmdDisasm(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s disasm <file.bd|file.obj>\n", appName)
		return 2
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}

	var prog *babyduck.Program
	if filepath.Ext(path) == ".obj" {
		prog, err = babyduck.Decode(strings.NewReader(string(data)))
	} else {
		prog, err = babyduck.Compile(string(data))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	prog.Disassemble(os.Stdout)
	return 0
}

func cmdRepl(_ []string) int {
	fmt.Println("BabyDuck REPL. Enter a full program ending with 'end'; Ctrl+D exits.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readProgram(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}

		if err := babyduck.Run(code, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readProgram accumulates lines until the program is closed with 'end'.
// A BabyDuck program is a complete unit, so the REPL compiles and runs
// whole programs rather than single statements.
func readProgram(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(promptMain)
		} else {
			line, err = ln.Prompt(promptCont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if programComplete(src) {
			return src, true
		}
	}
}

// programComplete reports whether the source has its closing 'end' keyword.
func programComplete(src string) bool {
	fields := strings.Fields(src)
	if len(fields) == 0 {
		return true
	}
	return fields[len(fields)-1] == "end"
}
