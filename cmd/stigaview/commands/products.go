package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/stigaview/stigaview/internal/catalog"
)

// ProductsCmd implements the 'products' command: it lists what a build
// would import without parsing any document.
type ProductsCmd struct {
	Input string `arg:"" optional:"" help:"Products directory (overrides products_path)"`
}

func (p *ProductsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if p.Input != "" {
		cfg.ProductsPath = p.Input
	}

	products, err := catalog.Discover(cfg.ProductsPath, cfg.Products)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.stdout(), 0, 4, 2, ' ', 0)
	for _, pc := range products {
		docs, err := catalog.Documents(pc, cfg.Build.SkipPrefix)
		if err != nil {
			return err
		}
		found := make(map[string]string, len(docs))
		for _, d := range docs {
			found[d.Key] = d.Path
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d documents\n", pc.ShortName, pc.FullName, len(docs))
		for _, key := range pc.Versions() {
			date, _ := pc.ReleaseDate(key)
			path, ok := found[key]
			if !ok {
				path = "(no document)"
			}
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\n", key, date, path)
		}
	}
	return tw.Flush()
}
