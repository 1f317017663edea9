package cmd

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TFMV/insights/errors"
	"github.com/TFMV/insights/events"
	"github.com/TFMV/insights/ingest"
	"github.com/TFMV/insights/logger"
	"github.com/TFMV/insights/render"
	"github.com/TFMV/insights/state"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	data       string
	format     string
	output     string
	clusters   []string
	ids        []string
	size       string
	text       string
	focus      string
	zoom       float64
	center     string
	showHidden bool
	timestamp  bool
}

func (a *app) renderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a dataset and write the drawn frame",
		Example: "  insights render --data fruit.json --output fruit.svg\n" +
			"  insights render --data deps.csv --filter-cluster 1,2 --focus api --format dot",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.data, "data", "d", "", "Dataset file: "+strings.Join(ingest.Formats(), ", "))
	flags.StringVarP(&f.format, "format", "f", "svg", "Output format: "+strings.Join(render.Formats(), ", "))
	flags.StringVarP(&f.output, "output", "o", "", "Output file (defaults to stdout)")
	flags.StringSliceVar(&f.clusters, "filter-cluster", nil, "Keep only these clusters")
	flags.StringSliceVar(&f.ids, "filter-id", nil, "Keep only these node ids")
	flags.StringVar(&f.size, "filter-size", "", "Keep only sizes in min:max; either bound may be empty")
	flags.StringVar(&f.text, "filter-text", "", "Keep only nodes whose text contains this, ignoring case")
	flags.StringVar(&f.focus, "focus", "", "Focus the first node with this id or text")
	flags.Float64Var(&f.zoom, "zoom", 0, "Zoom scale applied after the layout settles")
	flags.StringVar(&f.center, "center", "", "Center the view on this node id")
	flags.BoolVar(&f.showHidden, "show-hidden", false, "Keep hidden elements in DOT output")
	flags.BoolVar(&f.timestamp, "timestamp", false, "Stamp the output with the render time")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func (a *app) render(ctx context.Context, stdout io.Writer, f renderFlags) error {
	log := logger.Named("render")

	if _, err := render.GetRenderer(f.format); err != nil {
		return err
	}
	filters, err := f.filters()
	if err != nil {
		return err
	}

	g, surface, ds, err := a.open(f.data)
	if err != nil {
		return err
	}
	for _, m := range filters {
		if err := g.Filter(m); err != nil {
			return err
		}
	}
	if f.focus != "" {
		if err := g.Focus(state.Literal(f.focus)); err != nil {
			return err
		}
	}
	g.Once(events.NoMatch, func(events.Payload) {
		log.Warnw("no node matches the filters", logger.FieldFile, f.data)
	})

	if err := g.Render(ctx); err != nil {
		return errors.Wrap(err, "render")
	}
	if f.zoom != 0 {
		if err := g.Zoom(f.zoom); err != nil {
			return err
		}
	}
	if f.center != "" {
		if err := g.Center(f.center); err != nil {
			return err
		}
	}

	options := render.NewDefaultOptions(f.format)
	options.ShowHidden = f.showHidden
	options.Timestamp = f.timestamp

	w := stdout
	if f.output != "" && f.output != "-" {
		file, err := os.Create(f.output)
		if err != nil {
			return errors.Wrap(err, "create output file")
		}
		defer file.Close()
		w = file
	}

	n, err := surface.Export(w, options)
	if err != nil {
		return err
	}
	log.Infow("frame written",
		logger.FieldFile, f.output,
		logger.FieldFormat, f.format,
		"dataset", ds.Name,
		"bytes", n,
		"visible", g.VisibleNodeCount(),
	)
	return nil
}

// filters turns the filter flags into matchers, one per flag so they AND.
func (f renderFlags) filters() ([]state.Matcher, error) {
	var out []state.Matcher
	if len(f.clusters) > 0 {
		out = append(out, state.ByCluster(f.clusters...))
	}
	if len(f.ids) > 0 {
		out = append(out, state.ByID(f.ids...))
	}
	if f.size != "" {
		min, max, err := parseSizeRange(f.size)
		if err != nil {
			return nil, err
		}
		out = append(out, state.BySize(min, max))
	}
	if f.text != "" {
		out = append(out, state.ByText(f.text))
	}
	return out, nil
}

// parseSizeRange reads "min:max" where either side may be empty.
func parseSizeRange(s string) (*float64, *float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return nil, nil, errors.WithHint(
			errors.Wrapf(errors.ErrInvalidFilter, "size range %q", s),
			"use min:max, :max or min:")
	}

	var bounds [2]*float64
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, nil, errors.Mark(errors.Wrapf(err, "size bound %q", part), errors.ErrInvalidFilter)
		}
		bounds[i] = &v
	}
	if bounds[0] != nil && bounds[1] != nil && *bounds[0] > *bounds[1] {
		return nil, nil, errors.Wrapf(errors.ErrInvalidFilter, "size range %q is inverted", s)
	}
	return bounds[0], bounds[1], nil
}
