package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Opt is a single command-line option
type Opt struct {
	DestP    interface{} // pointer to the destination
	Flag     string
	Default  interface{}
	Desc     string
	Required bool
}

// Program parses CLI options
type Program struct {
	// Run is invoked by cobra on execute.
	Run func() error
	// Name is the name of the command in help usage.
	Name string
	// Short is the one line help text of the command.
	Short string
	// EnvPrefix prefixes every environment variable. It defaults to the
	// upper-cased Name.
	EnvPrefix string
	// Opts are the command line/env var options to the program
	Opts []Opt
}

// NewCommand creates a new cobra command to be executed that respects env vars.
//
// An option "some-flag" of a program with prefix REMAP is also read from
// REMAP_SOME_FLAG. Flags take precedence over the environment, which
// takes precedence over defaults.
func NewCommand(v *viper.Viper, p *Program) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   p.Name,
		Short: p.Short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := loadOptions(v, p.Opts); err != nil {
				return err
			}
			return p.Run()
		},
	}

	prefix := p.EnvPrefix
	if prefix == "" {
		prefix = p.Name
	}
	v.SetEnvPrefix(strings.ToUpper(prefix))
	v.AutomaticEnv()
	// This normalizes "-" to an underscore in env names.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := BindOptions(v, cmd, p.Opts); err != nil {
		return nil, err
	}
	return cmd, nil
}

// BindOptions adds opts to the specified command and registers them
// with v.
func BindOptions(v *viper.Viper, cmd *cobra.Command, opts []Opt) error {
	flags := cmd.Flags()
	for _, o := range opts {
		switch destP := o.DestP.(type) {
		case *string:
			d, _ := o.Default.(string)
			flags.StringVar(destP, o.Flag, d, o.Desc)
		case *int:
			d, _ := o.Default.(int)
			flags.IntVar(destP, o.Flag, d, o.Desc)
		case *bool:
			d, _ := o.Default.(bool)
			flags.BoolVar(destP, o.Flag, d, o.Desc)
		case *time.Duration:
			d, _ := o.Default.(time.Duration)
			flags.DurationVar(destP, o.Flag, d, o.Desc)
		case *[]string:
			d, _ := o.Default.([]string)
			flags.StringSliceVar(destP, o.Flag, d, o.Desc)
		case *zapcore.Level:
			d, ok := o.Default.(zapcore.Level)
			if !ok {
				d = zapcore.InfoLevel
			}
			LevelVar(flags, destP, o.Flag, d, o.Desc)
		case pflag.Value:
			if d, ok := o.Default.(string); ok {
				if err := destP.Set(d); err != nil {
					return fmt.Errorf("invalid default for flag %q: %w", o.Flag, err)
				}
			}
			flags.Var(destP, o.Flag, o.Desc)
		default:
			return fmt.Errorf("unknown destination type %T for flag %q", o.DestP, o.Flag)
		}
		if err := v.BindPFlag(o.Flag, flags.Lookup(o.Flag)); err != nil {
			return err
		}
	}
	return nil
}

// loadOptions copies the resolved value of every option into its
// destination.
func loadOptions(v *viper.Viper, opts []Opt) error {
	for _, o := range opts {
		if o.Required && !v.IsSet(o.Flag) {
			return fmt.Errorf("required flag %q not set", o.Flag)
		}
		switch destP := o.DestP.(type) {
		case *string:
			*destP = v.GetString(o.Flag)
		case *int:
			*destP = v.GetInt(o.Flag)
		case *bool:
			*destP = v.GetBool(o.Flag)
		case *time.Duration:
			*destP = v.GetDuration(o.Flag)
		case *[]string:
			*destP = v.GetStringSlice(o.Flag)
		case *zapcore.Level:
			if err := (*levelValue)(destP).Set(v.GetString(o.Flag)); err != nil {
				return fmt.Errorf("flag %q: %w", o.Flag, err)
			}
		case pflag.Value:
			if err := destP.Set(v.GetString(o.Flag)); err != nil {
				return fmt.Errorf("flag %q: %w", o.Flag, err)
			}
		}
	}
	return nil
}
