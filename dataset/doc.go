// Package dataset moves corpora and predictions between blob stores and the classifier.
//
// Corpora are comma-separated text, one sample per row. Reference rows carry
// the label in the first column; query rows carry only features. An optional
// header row is skipped. Blobs whose name ends in .gz, .zst or .lz4 are
// decompressed transparently.
//
//	ref, err := dataset.LoadReference(ctx, store, "train.csv.zst")
//	queries, err := dataset.LoadQueries(ctx, store, "test.csv")
//
// Predictions are written by a Sink, one label per line in query order, or in
// the ImageId,Label submission layout. Publish records a run manifest and
// moves the CURRENT pointer to it.
package dataset
