package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/TFMV/insights/graph"
	"github.com/TFMV/insights/graphview"
	"github.com/TFMV/insights/ingest"
	"github.com/spf13/cobra"
)

func (a *app) inspectCmd() *cobra.Command {
	var (
		data   string
		node   string
		layout bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a dataset: clusters, sizes and adjacency",
		Example: "  insights inspect --data fruit.json\n" +
			"  insights inspect --data fruit.json --node 1 --layout",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect(cmd.Context(), cmd.OutOrStdout(), data, node, layout)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "Dataset file: "+strings.Join(ingest.Formats(), ", "))
	cmd.Flags().StringVar(&node, "node", "", "Show details and adjacency for this node id")
	cmd.Flags().BoolVar(&layout, "layout", false, "Run the layout and report positions")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func (a *app) inspect(ctx context.Context, w io.Writer, data, node string, layout bool) error {
	g, _, ds, err := a.open(data)
	if err != nil {
		return err
	}
	if layout {
		if err := g.Render(ctx); err != nil {
			return err
		}
	}

	ix := g.Index()
	fmt.Fprintf(w, "  %s  %s (%s)\n", label("Dataset"), ds.Name, ds.Format)
	fmt.Fprintf(w, "  %s  %d\n", label("Nodes"), len(ix.Nodes))
	fmt.Fprintf(w, "  %s  %d", label("Links"), len(ix.Links))
	if ix.Dropped > 0 {
		Warn.Fprintf(w, " (%d dropped)", ix.Dropped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %g\n", label("Max size"), ix.MaxSize)
	if layout {
		fmt.Fprintf(w, "  %s  %s (%s)\n", label("Layout"), g.Phase(), g.Transform())
	}

	printClusters(w, g, ix)

	if node != "" {
		return printNode(w, g, ix, node, layout)
	}
	return nil
}

func printClusters(w io.Writer, g *graphview.Graph, ix *graph.Index) {
	counts := make(map[string]int)
	for _, n := range ix.Nodes {
		counts[n.Cluster]++
	}
	colors := g.GetClusters()

	fmt.Fprintf(w, "  %s\n", label("Clusters"))
	for _, id := range g.ClusterIDs() {
		name := id
		if name == "" {
			name = Subtle.Sprint("(none)")
		}
		fmt.Fprintf(w, "    %s %-10s %s  %d\n", swatch(colors[id]), name, Subtle.Sprint(colors[id]), counts[id])
	}
}

func printNode(w io.Writer, g *graphview.Graph, ix *graph.Index, id string, layout bool) error {
	n, err := g.GetNode(id)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s\n", label("Node"), Info.Sprint(n.ID))
	fmt.Fprintf(w, "  %s  %s\n", label("Text"), n.Text)
	fmt.Fprintf(w, "  %s  %g\n", label("Size"), n.Size)
	fmt.Fprintf(w, "  %s  %s\n", label("Cluster"), n.Cluster)
	if layout {
		fmt.Fprintf(w, "  %s  %.1f, %.1f\n", label("Position"), n.X, n.Y)
	}
	fmt.Fprintf(w, "  %s  %d\n", label("Neighbors"), ix.Neighbors(n.ID))

	for _, dir := range []graph.Direction{graph.Incoming, graph.Outgoing} {
		adj := ix.Adjacents(n.ID, dir)
		delete(adj, n.ID)
		ids := sortedKeys(adj)
		if len(ids) == 0 {
			fmt.Fprintf(w, "  %s  %s\n", label(dir.String()), Subtle.Sprint("none"))
			continue
		}
		fmt.Fprintf(w, "  %s  %v\n", label(dir.String()), ids)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
