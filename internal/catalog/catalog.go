// Package catalog builds the complete in-memory catalog of products, their
// benchmark documents and the SRG cross-reference from a products tree.
package catalog

import (
	"github.com/stigaview/stigaview/internal/model"
	"github.com/stigaview/stigaview/internal/srg"
)

// Catalog is the immutable result of a build's import phase.
type Catalog struct {
	Products []*model.Product // sorted by short name
	SRGs     srg.Map
}

// Stigs returns every stig of every product in catalog order.
func (c *Catalog) Stigs() []*model.Stig {
	return model.AllStigs(c.Products)
}

// Product returns the product with the given slug, or nil.
func (c *Catalog) Product(slug string) *model.Product {
	for _, p := range c.Products {
		if p.ShortName == slug {
			return p
		}
	}
	return nil
}

// Counts returns the number of products, stigs, controls and SRG ids.
func (c *Catalog) Counts() (products, stigs, controls, srgs int) {
	for _, p := range c.Products {
		stigs += len(p.Stigs)
		controls += p.ControlCount()
	}
	return len(c.Products), stigs, controls, len(c.SRGs)
}
