// Package gp implements the genotype of the evolved dispatch policies:
// expression trees over a fixed grammar, their random construction, the
// genetic operators and the Policy pairing a routing and a sequencing tree.
//
// Trees are stored in prefix order in a single owned slice. Every operator
// returns a freshly allocated tree, so two individuals never share nodes.
package gp
