// Package babyduck compiles and executes BabyDuck programs: a small
// imperative language with int/float/bool variables, arithmetic and
// comparison expressions, if/else, while-do, print, and non-returning
// procedures with value parameters.
//
// The pipeline is compile (lex, parse, build the function directory,
// generate quadruples) and execute (interpret the quadruple object program
// on a segmented virtual machine).
package babyduck

import (
	"fmt"
	"io"
	"strings"

	"github.com/xirelogy/go-babyduck/internal/directory"
	"github.com/xirelogy/go-babyduck/internal/gen"
	"github.com/xirelogy/go-babyduck/internal/lexer"
	"github.com/xirelogy/go-babyduck/internal/memory"
	"github.com/xirelogy/go-babyduck/internal/parser"
	"github.com/xirelogy/go-babyduck/internal/program"
	"github.com/xirelogy/go-babyduck/internal/quads"
	"github.com/xirelogy/go-babyduck/internal/vm"
)

// Program is a compiled BabyDuck program ready for execution or
// serialisation.
type Program struct {
	obj *program.Object
}

// ParseError collects the syntax errors found in one source text.
type ParseError struct {
	Messages []string
}

func (e *ParseError) Error() string {
	if len(e.Messages) == 1 {
		return "parse error: " + e.Messages[0]
	}
	return fmt.Sprintf("parse error: %s (and %d more)", e.Messages[0], len(e.Messages)-1)
}

// RuntimeError is an execution failure surfaced from the virtual machine.
type RuntimeError struct {
	Kind    string
	IP      int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

// Compile turns source text into a compiled program. The first semantic
// error aborts compilation.
func Compile(source string) (*Program, error) {
	p := parser.New(lexer.New(source))
	prog := p.ParseProgram()
	if msgs := p.Errors(); len(msgs) != 0 {
		return nil, &ParseError{Messages: msgs}
	}

	alloc := memory.NewAllocator()
	dir, err := directory.Build(prog, alloc)
	if err != nil {
		return nil, err
	}
	obj, err := gen.Generate(prog, dir, alloc)
	if err != nil {
		return nil, err
	}
	return &Program{obj: obj}, nil
}

// Name returns the program's declared identifier.
func (p *Program) Name() string {
	return p.obj.Name
}

// Execute runs the program, writing print output to out.
func (p *Program) Execute(out io.Writer) error {
	machine := vm.New(p.obj, out)
	if err := machine.Run(); err != nil {
		return convertRuntimeError(err)
	}
	return nil
}

// Run compiles and executes source in one step.
func Run(source string, out io.Writer) error {
	prog, err := Compile(source)
	if err != nil {
		return err
	}
	return prog.Execute(out)
}

// Encode writes the program's object form, a textual .obj stream.
func (p *Program) Encode(w io.Writer) error {
	return p.obj.Encode(w)
}

// Decode reads a program previously written by Encode.
func Decode(r io.Reader) (*Program, error) {
	obj, err := program.Decode(r)
	if err != nil {
		return nil, err
	}
	return &Program{obj: obj}, nil
}

// Disassemble writes a readable quadruple listing.
func (p *Program) Disassemble(w io.Writer) {
	quads.Disassemble(w, p.obj.Quads)
}

// DumpObject returns the object program as text, for inspection.
func (p *Program) DumpObject() (string, error) {
	var sb strings.Builder
	if err := p.obj.Encode(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func convertRuntimeError(err error) error {
	if rte, ok := err.(*vm.RuntimeError); ok {
		return &RuntimeError{
			Kind:    rte.Kind.String(),
			IP:      rte.IP,
			Message: rte.Error(),
			Cause:   rte,
		}
	}
	return err
}
