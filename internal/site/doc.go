// Package site renders a catalog into a static HTML tree.
//
// A build runs as an ordered list of stages (prepare_output, static_assets,
// global_indexes, render_products and, when enabled, verify_links). Global
// index pages are written before the per-product fan-out; each product is
// rendered by an independent worker that only writes below
// products/<slug>/. After a product's versions are written, the newest one is
// copied to products/<slug>/latest.
//
// Pages are produced from html/template sources embedded in the binary. A file
// named like an embedded template (for example stig.html) in the configured
// templates directory replaces the default.
package site
