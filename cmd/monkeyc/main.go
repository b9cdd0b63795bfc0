// Copyright 2026 monkeyc authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomyk9991/monkeyc/internal/codegen"
	"github.com/tomyk9991/monkeyc/internal/lexer"
	"github.com/tomyk9991/monkeyc/internal/optimize"
	"github.com/tomyk9991/monkeyc/internal/parser"
	"github.com/tomyk9991/monkeyc/internal/source"
	"github.com/tomyk9991/monkeyc/internal/symtab"
	"github.com/tomyk9991/monkeyc/internal/typecheck"
	"github.com/tomyk9991/monkeyc/internal/typeinfer"
)

var noFold bool

const banner = `
                      _                      _
 _ __ ___   ___  _ __| | _____ _   _    ___ | |
| '_ ' _ \ / _ \| '_ \ |/ / _ \ | | |  / __|| |
| | | | | | (_) | | | |   <  __/ |_| | | (__ |_|
|_| |_| |_|\___/|_| |_|_|\_\___|\__, |  \___|(_)
                                |___/
Monkey-Language to NASM (Windows x64) compiler`

var command = &cobra.Command{
	Use:  "monkeyc -i source [-o output]",
	Long: banner,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.PersistentFlags().GetString("input")
		output, _ := cmd.PersistentFlags().GetString("output")
		if err := compile(input, output); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	command.PersistentFlags().StringP("input", "i", "", "path of the Monkey-Language source file to compile")
	command.PersistentFlags().StringP("output", "o", "", "output path for the generated NASM source (defaults to stdout)")
	command.PersistentFlags().BoolVar(&noFold, "no-fold", false, "skip the O1 constant-folding pass")
	_ = command.MarkPersistentFlagRequired("input")
}

// compile runs the full pipeline: source intake, lexing, parsing,
// type inference, type checking, optional constant folding, and NASM
// code generation (spec §2).
func compile(sourcePath, output string) error {
	raw, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	lines := source.Intake(string(raw))
	toks, err := lexer.Lex(lines)
	if err != nil {
		return fmt.Errorf("lexing %s: %w", sourcePath, err)
	}

	prog, err := parser.Parse(toks)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", sourcePath, err)
	}

	table := symtab.New()
	if err := typeinfer.Infer(prog, table); err != nil {
		return fmt.Errorf("inferring types in %s: %w", sourcePath, err)
	}
	if err := typecheck.Check(prog, table); err != nil {
		return fmt.Errorf("type-checking %s: %w", sourcePath, err)
	}
	if !noFold {
		optimize.FoldProgram(prog)
	}

	asm, err := codegen.Generate(prog, table)
	if err != nil {
		return fmt.Errorf("generating code for %s: %w", sourcePath, err)
	}

	if output == "" {
		_, err = fmt.Print(asm)
		return err
	}
	return os.WriteFile(output, []byte(asm), 0o644)
}

func main() {
	if err := command.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
