// Package vote turns a neighbour set into a single predicted label.
//
// Weighted implements the inverse-distance weighted mode: a neighbour at
// distance 0 decides immediately, otherwise each neighbour adds 1/distance to
// its label and the heaviest label wins, the smallest label breaking ties.
// Majority implements a plain (unweighted) mode with the same tie-break.
package vote
