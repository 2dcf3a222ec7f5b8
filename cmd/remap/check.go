package main

import (
	"fmt"

	"github.com/influxdata/remap/ast"
	"github.com/influxdata/remap/compiler"
	"github.com/influxdata/remap/kit/cli"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) newCheckCommand() (*cobra.Command, error) {
	var program string
	return cli.NewCommand(a.newViper(), &cli.Program{
		Name:      "check",
		Short:     "Compile a program and print its type",
		EnvPrefix: envPrefix,
		Opts: []cli.Opt{
			{DestP: &program, Flag: "program", Desc: "path to the program, YAML or JSON", Required: true},
		},
		Run: func() error {
			prog, err := a.compile(program)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s: %s\n", program, prog.TypeDef())
			return nil
		},
	})
}

// compile reads and compiles the program at path. Compile errors are
// printed one per line.
func (a *app) compile(path string) (*compiler.Program, error) {
	node, err := ast.Parse(ast.EncodingFromPath(path), ast.FromFile(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading program %s", path)
	}

	prog, err := compiler.Compile(node, compiler.WithLogger(a.log))
	if err != nil {
		errs := compiler.Errors(err)
		for _, e := range errs {
			fmt.Fprintf(a.stderr, "%s: %v\n", path, e)
		}
		return nil, errors.Errorf("%s: %d compile error(s)", path, len(errs))
	}
	return prog, nil
}
