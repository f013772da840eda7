// Package features walks a rendered card and tallies which Adaptive Card
// element and action families it uses. Type strings are matched
// case-sensitively; anything unrecognized lands in the unknown bucket.
package features
