// Package build drives the pipeline end to end: source text through the
// lexer, parser and code generator, then out through the external assembler
// and linker.
package build

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/felistron/ezlang/pkg/codegen"
	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
	"github.com/felistron/ezlang/pkg/lexer"
	"github.com/felistron/ezlang/pkg/parser"
)

// Toolchain assembles and links generated text. It is an interface so the
// driver can be exercised without nasm and ld installed.
type Toolchain interface {
	Assemble(ctx context.Context, asmFile, objFile string) error
	Link(ctx context.Context, objFile, exeFile string) error
}

// ExecToolchain shells out to the commands configured in cfg, nasm and ld by
// default. Tool output is surfaced verbatim on failure.
type ExecToolchain struct {
	cfg *config.Config
}

func NewExecToolchain(cfg *config.Config) *ExecToolchain {
	return &ExecToolchain{cfg: cfg}
}

func (t *ExecToolchain) Assemble(ctx context.Context, asmFile, objFile string) error {
	cmd := exec.CommandContext(ctx, t.cfg.Assembler, "-felf64", asmFile, "-o", objFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("Assemble error\n\t%s", toolMessage(out, err))
	}
	return nil
}

func (t *ExecToolchain) Link(ctx context.Context, objFile, exeFile string) error {
	cmd := exec.CommandContext(ctx, t.cfg.Linker, objFile, "-o", exeFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("Link error\n\t%s", toolMessage(out, err))
	}
	return nil
}

func toolMessage(out []byte, err error) string {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return msg
	}
	return err.Error()
}

// Options controls where the driver stops and what it writes.
type Options struct {
	Output  string // final executable path; empty means the source stem
	AsmOnly bool   // stop after writing the assembly file
}

// Result reports the paths written by a successful Compile. ObjFile and
// ExeFile are empty when AsmOnly was set.
type Result struct {
	AsmFile string
	ObjFile string
	ExeFile string
}

// Compile runs the whole pipeline for one source file. The first error from
// any stage aborts; diagnostics come back as values for the caller to
// render.
func Compile(ctx context.Context, file string, cfg *config.Config, tc Toolchain, opts Options) (*Result, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("Cannot open %s", file)
	}
	diag.SetSource(file, src)

	toks, err := lexer.Tokenize(file, src, cfg)
	if err != nil {
		return nil, err
	}
	prog, err := parser.New(file, toks, cfg).Parse()
	if err != nil {
		return nil, err
	}
	asm, err := codegen.New(file, prog, cfg).Generate()
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(file, filepath.Ext(file))
	res := &Result{AsmFile: stem + ".s"}
	if err := os.WriteFile(res.AsmFile, []byte(asm), 0o644); err != nil {
		return nil, fmt.Errorf("Cannot write %s", res.AsmFile)
	}
	if opts.AsmOnly {
		return res, nil
	}

	res.ObjFile = stem + ".o"
	res.ExeFile = opts.Output
	if res.ExeFile == "" {
		res.ExeFile = stem
	}
	if err := tc.Assemble(ctx, res.AsmFile, res.ObjFile); err != nil {
		return nil, err
	}
	if err := tc.Link(ctx, res.ObjFile, res.ExeFile); err != nil {
		return nil, err
	}
	return res, nil
}
