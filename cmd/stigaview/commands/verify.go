package commands

import (
	"fmt"

	"github.com/stigaview/stigaview/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Dir     string `arg:"" optional:"" help:"Rendered site directory (defaults to output.directory)"`
	Workers int    `short:"w" help:"Worker count (0 = number of CPUs)"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	dir := v.Dir
	if dir == "" {
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		dir = cfg.Output.Directory
	}

	res, err := linkverify.NewVerifier(dir).WithWorkers(v.Workers).Verify(g.ctx())
	if err != nil {
		return err
	}
	w := g.stdout()
	for _, b := range res.Broken {
		_, _ = fmt.Fprintf(w, "%s: broken link %s\n", b.Page, b.URL)
	}
	_, _ = fmt.Fprintf(w, "%d pages, %d internal links, %d broken\n", res.Pages, res.Links, len(res.Broken))
	return res.Err()
}
