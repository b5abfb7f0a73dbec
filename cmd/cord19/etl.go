package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/cord19/internal/logger"
	"github.com/cognicore/cord19/pkg/cord19"
	"github.com/cognicore/cord19/pkg/cord19/config"
)

func newETLCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "etl <input-dir> [output-dir]",
		Short: "Transform metadata.csv and the body text files into articles.sqlite",
		Long: `Reads <input-dir>/metadata.csv and the per-paper JSON files and writes
<output-dir>/articles.sqlite, replacing any existing database.
The output directory defaults to ~/.cord19/models.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			var output string
			if len(args) > 1 {
				output = args[1]
			}

			log, err := logger.New(logger.Config{Level: v.GetString("log-level")})
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			loader := config.Loader{RulesPath: v.GetString("config")}
			components, err := loader.Load(input)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			builder := cord19.New(cord19.Options{
				InputDir:      input,
				OutputDir:     output,
				Tagger:        components.Tagger,
				Extractor:     components.Extractor,
				Logger:        log,
				ProgressEvery: v.GetInt("progress-every"),
			})

			res, err := builder.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d articles and %d sections to %s\n", res.Articles, res.Sections, res.Path)
			return nil
		},
	}

	cmd.Flags().String("config", "", "rules file (YAML) with tagging keywords and boilerplate markers")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().Int("progress-every", cord19.DefaultProgressEvery, "log progress every N articles")
	_ = v.BindPFlags(cmd.Flags())
	return cmd
}
