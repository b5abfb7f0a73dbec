// Command cord19 builds and inspects the CORD-19 articles database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix scopes the environment variables read by viper.
const envPrefix = "CORD19"

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	if err := newRootCommand(viper.New()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "cord19",
		Short:         "Build a searchable article database from the CORD-19 corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newETLCommand(v))
	root.AddCommand(newInspectCommand())
	return root
}
