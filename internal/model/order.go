package model

import (
	"cmp"
	"slices"
)

// CompareProducts orders products by short name.
func CompareProducts(a, b *Product) int {
	return cmp.Compare(a.ShortName, b.ShortName)
}

// CompareStigs orders stigs by release date, then product, version and release.
func CompareStigs(a, b *Stig) int {
	if c := a.ReleaseDate.Compare(b.ReleaseDate); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ProductName(), b.ProductName()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Version, b.Version); c != 0 {
		return c
	}
	return cmp.Compare(a.Release, b.Release)
}

// CompareControls orders controls by DISA STIG id, then vulnerability id.
func CompareControls(a, b *Control) int {
	if c := cmp.Compare(a.DisaStigID, b.DisaStigID); c != 0 {
		return c
	}
	return cmp.Compare(a.VulnerabilityID, b.VulnerabilityID)
}

// CompareControlsAcrossStigs orders controls from different documents: by
// owning stig, then by control.
func CompareControlsAcrossStigs(a, b *Control) int {
	if a.Stig != nil && b.Stig != nil && a.Stig != b.Stig {
		if c := CompareStigs(a.Stig, b.Stig); c != 0 {
			return c
		}
	}
	return CompareControls(a, b)
}

// SortedProducts returns a sorted copy of products.
func SortedProducts(products []*Product) []*Product {
	out := slices.Clone(products)
	slices.SortStableFunc(out, CompareProducts)
	return out
}

// SortedStigs returns a sorted copy of stigs, oldest first.
func SortedStigs(stigs []*Stig) []*Stig {
	out := slices.Clone(stigs)
	slices.SortStableFunc(out, CompareStigs)
	return out
}

// SortedControls returns a sorted copy of controls.
func SortedControls(controls []*Control) []*Control {
	out := slices.Clone(controls)
	slices.SortStableFunc(out, CompareControls)
	return out
}

// AllStigs returns every stig of every product, sorted oldest first.
func AllStigs(products []*Product) []*Stig {
	var all []*Stig
	for _, p := range products {
		all = append(all, p.Stigs...)
	}
	slices.SortStableFunc(all, CompareStigs)
	return all
}

// RecentStigs returns at most n stigs across all products, newest first.
func RecentStigs(products []*Product, n int) []*Stig {
	all := AllStigs(products)
	if len(all) > n {
		all = all[len(all)-n:]
	}
	slices.Reverse(all)
	return all
}
