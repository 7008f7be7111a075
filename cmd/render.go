package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethpandaops/panda-wheel/pkg/render"
	"github.com/ethpandaops/panda-wheel/pkg/store"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileGuild is the guild a wheel file is loaded into.
const fileGuild = "file"

// wheelFile is the YAML layout accepted by the render command.
type wheelFile struct {
	Sections []struct {
		Name       string  `yaml:"name"`
		Percentage float64 `yaml:"percentage"`
		Color      string  `yaml:"color"`
	} `yaml:"sections"`
}

func newRenderCmd() *cobra.Command {
	var (
		file   string
		out    string
		winner string
		spin   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a wheel defined in a YAML file to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read wheel file: %w", err)
			}

			png, picked, err := renderWheel(cmd.Context(), log, data, winner, spin)
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, png, 0o600); err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}

			entry := log.WithField("out", out)
			if picked != "" {
				entry = entry.WithField("winner", picked)
			}

			entry.Info("Rendered wheel")

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "YAML file describing the wheel sections")
	cmd.Flags().StringVar(&out, "out", "wheel.png", "where to write the PNG")
	cmd.Flags().StringVar(&winner, "winner", "", "section to highlight as the winner")
	cmd.Flags().BoolVar(&spin, "spin", false, "spin the wheel and highlight the result")

	if err := cmd.MarkFlagRequired("file"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cmd.MarkFlagsMutuallyExclusive("winner", "spin")

	return cmd
}

// renderWheel builds the wheel in data through the engine, so files obey the same rules
// as the bot, and renders it. It returns the PNG and the highlighted section, if any.
func renderWheel(ctx context.Context, log *logrus.Logger, data []byte, winner string, spin bool) ([]byte, string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var wf wheelFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, "", fmt.Errorf("failed to parse wheel file: %w", err)
	}

	engine := wheel.NewEngine(log, store.NewCache(log, store.NewMemoryRepo(nil), nil))

	for _, s := range wf.Sections {
		if _, err := engine.AddSection(ctx, fileGuild, s.Name, s.Percentage, s.Color); err != nil {
			return nil, "", fmt.Errorf("invalid section %q: %w", s.Name, err)
		}
	}

	sections, _, err := engine.ListSections(ctx, fileGuild)
	if err != nil {
		return nil, "", err
	}

	if spin {
		res, err := engine.SpinWheel(ctx, fileGuild)
		if err != nil {
			return nil, "", fmt.Errorf("failed to spin wheel: %w", err)
		}

		sections, winner = res.Sections, res.Winner.Name
	}

	if winner != "" {
		idx := sections.Index(winner)
		if idx < 0 {
			return nil, "", &wheel.SectionNotFoundError{Name: winner}
		}

		// The renderer highlights by the stored name.
		winner = sections[idx].Name
	}

	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, "", err
	}

	png, err := renderer.Render(sections, winner)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render wheel: %w", err)
	}

	return png, winner, nil
}
