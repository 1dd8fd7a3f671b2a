// SPDX-License-Identifier: MIT

// Package cli builds cobra command trees from declarative specs. A
// command's flags are described by a plain struct: each tagged field
// becomes a flag and is populated before the Run hook fires, so
// handlers read typed fields instead of poking at flag sets.
//
//	type serveFlags struct {
//		Port    int  `flag:"port" short:"p" usage:"listen port"`
//		Verbose bool `flag:"verbose" usage:"enable debug output"`
//	}
//
// Importing this package sets cobra.EnableTraverseRunHooks process-wide
// so that parent Init hooks run outer-to-inner; binaries that mix this
// package with hand-built cobra trees inherit that traversal behavior.
package cli

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	// Parent Init hooks must run outer-to-inner before the leaf Run.
	// This is a cobra package global, so it also applies to any other
	// command trees in the importing binary (see the package doc).
	cobra.EnableTraverseRunHooks = true
}

// Spec declares one command. Flags, Subcommands, Init, and Run are all
// optional; a Spec with subcommands and no Run prints help.
type Spec struct {
	Name  string
	Short string
	Long  string

	// Flags is a pointer to a struct whose tagged fields become flags.
	// Supported kinds: bool, int, float64, string, time.Duration.
	// Tags: flag (name, required), short, usage, required.
	Flags any

	Subcommands []*Spec

	// Init runs before Run, outermost command first.
	Init func(ctx context.Context) error

	// Run handles the command with positional args. Flag values are
	// already bound into the Flags struct.
	Run func(ctx context.Context, args []string) error
}

// Build converts the spec tree into a cobra command tree.
func Build(spec *Spec) (*cobra.Command, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("command spec has no name")
	}

	cmd := &cobra.Command{
		Use:           spec.Name,
		Short:         spec.Short,
		Long:          spec.Long,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if spec.Init != nil {
		initFn := spec.Init
		cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
			return initFn(c.Context())
		}
	}

	switch {
	case spec.Run != nil:
		runFn := spec.Run
		cmd.RunE = func(c *cobra.Command, args []string) error {
			return runFn(c.Context(), args)
		}
	case len(spec.Subcommands) > 0:
		cmd.RunE = func(c *cobra.Command, _ []string) error {
			return c.Help()
		}
	}

	if spec.Flags != nil {
		// Parent flags go on the persistent set so they may appear
		// anywhere before the leaf command.
		fs := cmd.Flags()
		persistent := len(spec.Subcommands) > 0
		if persistent {
			fs = cmd.PersistentFlags()
		}
		if err := bindFlags(cmd, fs, persistent, spec.Flags); err != nil {
			return nil, fmt.Errorf("command %s: %w", spec.Name, err)
		}
	}

	for _, sub := range spec.Subcommands {
		subCmd, err := Build(sub)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(subCmd)
	}

	return cmd, nil
}

// Execute builds the spec tree and runs it against os.Args.
func Execute(spec *Spec) error {
	cmd, err := Build(spec)
	if err != nil {
		return err
	}
	return cmd.ExecuteContext(context.Background())
}

// bindFlags registers one flag per tagged struct field, binding the
// flag value straight into the field.
func bindFlags(cmd *cobra.Command, fs *pflag.FlagSet, persistent bool, flags any) error {
	v := reflect.ValueOf(flags)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("flags must be a non-nil pointer to a struct, got %T", flags)
	}

	elem := v.Elem()
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get("flag")
		if name == "" || name == "-" {
			continue
		}

		short := field.Tag.Get("short")
		usage := field.Tag.Get("usage")
		if usage != "" && usage[len(usage)-1] != '.' {
			usage += "."
		}

		fv := elem.Field(i)
		switch ptr := fv.Addr().Interface().(type) {
		case *time.Duration:
			fs.DurationVarP(ptr, name, short, *ptr, usage)
		case *bool:
			fs.BoolVarP(ptr, name, short, *ptr, usage)
		case *int:
			fs.IntVarP(ptr, name, short, *ptr, usage)
		case *float64:
			fs.Float64VarP(ptr, name, short, *ptr, usage)
		case *string:
			fs.StringVarP(ptr, name, short, *ptr, usage)
		default:
			return fmt.Errorf("field %s: unsupported flag type %s", field.Name, field.Type)
		}

		if field.Tag.Get("required") == "true" {
			var err error
			if persistent {
				err = cmd.MarkPersistentFlagRequired(name)
			} else {
				err = cmd.MarkFlagRequired(name)
			}
			if err != nil {
				return fmt.Errorf("mark flag %s required: %w", name, err)
			}
		}
	}

	return nil
}
