// Package distance provides the quantized Lp dissimilarity used for ranking
// neighbours.
//
// For each dimension the signed difference a[i]-b[i] is binned by magnitude
// into uniform buckets of width binWidth (bin = ceil(|d| / binWidth)), raised
// to the p-th power and summed. The p-th root is never taken: it does not
// change the ranking for a fixed p.
//
// # Usage
//
//	m, err := distance.New(3, 16)
//	d, err := m.Distance(a, b)
//
//	d, err := distance.QuantizedLp(a, b, 3, 16) // one-off
package distance
