// Package config defines the format-agnostic catalog model: the reaction
// systems the feedback loop submits calculations for, and the shared
// operational settings passed through to the workflow engine. Concrete
// loaders (hclspec, yamlspec) translate their on-disk formats into this
// model so the rest of the application never touches a parser.
package config
