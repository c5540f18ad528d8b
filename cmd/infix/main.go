// Command infix is the Infix compiler driver. It stages source reading,
// preprocessing, lexing, parsing and code generation behind a cobra
// command tree, matching hhramberg-go-vslc/src/main.go's run(opt) error
// pipeline shape while trading its flag-struct-plus-getopt parsing for
// spf13/cobra, in keeping with the rest of the corpus.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Rafagd/infix-lang/frontend"
	"github.com/Rafagd/infix-lang/generator"
	"github.com/Rafagd/infix-lang/util"
)

type options struct {
	dumpTokens  bool
	dumpAST     bool
	typeChecker bool
	emitLLVM    bool
	emitAsm     bool
	buildOnly   bool
	includeDir  string
	out         string
}

func main() {
	opt := &options{}

	root := &cobra.Command{
		Use:           "infix [flags] <file> [program-args...]",
		Short:         "Compile an Infix source file to a native executable",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(args[0], args[1:], opt); err != nil {
				util.PrintDiagnostic(os.Stderr, args[0], err)
				return err
			}
			return nil
		},
	}

	root.Flags().BoolVar(&opt.dumpTokens, "tokens", false, "print the token stream and exit")
	root.Flags().BoolVar(&opt.dumpAST, "ast", false, "print the parsed syntax tree and exit")
	root.Flags().BoolVar(&opt.typeChecker, "type-checker", false, "run type checking only and exit")
	root.Flags().BoolVar(&opt.emitLLVM, "code-gen", false, "print generated LLVM IR and exit, skipping assembly/link")
	root.Flags().BoolVar(&opt.emitAsm, "asm", false, "print generated assembly and exit, skipping link")
	root.Flags().BoolVar(&opt.buildOnly, "build-only", false, "compile and link but do not execute")
	root.Flags().StringVar(&opt.includeDir, "include-dir", "include", "directory to resolve #include and the standard prelude from")
	root.Flags().StringVarP(&opt.out, "out", "o", "a.out", "output path of the final binary")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string, programArgs []string, opt *options) error {
	src, err := util.ResolveIncludes(path, opt.includeDir)
	if err != nil {
		return err
	}

	if opt.dumpTokens {
		tokens, err := frontend.Tokenize(src)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			fmt.Println(t.String())
		}
		return nil
	}

	root, err := frontend.Parse(src)
	if err != nil {
		return err
	}

	if opt.dumpAST {
		root.Print(0)
		return nil
	}

	gen := generator.New(filepath.Base(path))
	ir, err := gen.Generate(root)
	if err != nil {
		return err
	}

	if opt.typeChecker {
		return nil
	}

	if opt.emitLLVM {
		fmt.Print(ir)
		return nil
	}

	if opt.emitAsm {
		asm, err := compileToAsm(ir)
		if err != nil {
			return err
		}
		fmt.Print(asm)
		return nil
	}

	return assemble(ir, programArgs, opt)
}

// withScratchIR writes ir to a uuid-named temp file, passes its path to fn,
// and removes the file on return: the llc/clang pipeline stage's only
// durable side effect is the final binary fn itself produces.
func withScratchIR(ir string, fn func(irPath string) error) error {
	tmpDir := os.TempDir()
	irPath := filepath.Join(tmpDir, "infix-"+uuid.NewString()+".ll")
	if err := os.WriteFile(irPath, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("writing scratch IR file: %w", err)
	}
	defer os.Remove(irPath)
	return fn(irPath)
}

// compileToAsm lowers ir to textual target assembly via llc, for --asm.
func compileToAsm(ir string) (string, error) {
	var out []byte
	err := withScratchIR(ir, func(irPath string) error {
		cmd := exec.Command("llc", "-o", "-", irPath)
		cmd.Stderr = os.Stderr
		var runErr error
		out, runErr = cmd.Output()
		return runErr
	})
	return string(out), err
}

// assemble compiles and links generated IR with clang into a native binary
// at opt.out, then runs it with programArgs unless --build-only was given.
func assemble(ir string, programArgs []string, opt *options) error {
	return withScratchIR(ir, func(irPath string) error {
		if opt.buildOnly {
			cmd := exec.Command("clang", "-o", opt.out, irPath)
			cmd.Stderr = os.Stderr
			return cmd.Run()
		}

		cmd := exec.Command("clang", "-o", opt.out, irPath)
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return err
		}

		absOut := opt.out
		if !filepath.IsAbs(absOut) {
			if abs, err := filepath.Abs(absOut); err == nil {
				absOut = abs
			}
		}
		run := exec.Command(absOut, programArgs...)
		run.Stdin = os.Stdin
		run.Stdout = os.Stdout
		run.Stderr = os.Stderr
		return run.Run()
	})
}
