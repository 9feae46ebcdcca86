package cli

import (
	"github.com/spf13/cobra"
)

const rootLongDesc string = `knn classifies feature vectors by their k nearest neighbours.

Distances are quantized Lp distances: each coordinate difference is divided
into bins of --bin-width before being raised to the power --p. Neighbours vote
with weight 1/distance; an exact match wins outright.

Datasets are comma-separated files read from a local directory, S3 or MinIO.
Files ending in .gz, .zst or .lz4 are decompressed on the fly.

Configuration is read from knn.toml (or --config), KNN_* environment variables
and flags, in increasing order of precedence.`

const rootShortDesc string = "k-nearest-neighbour classifier"

// NewRootCmd returns the knn command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "knn",
		Short:        rootShortDesc,
		Long:         rootLongDesc,
		SilenceUsage: true,
	}

	d := NewDefaultConfig()
	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to a TOML config file (default ./knn.toml if present)")
	pf.String("log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	pf.String("log-format", d.Log.Format, "Log format (text, json)")

	pf.String("store", d.Store.Kind, "Blob store (local, s3, minio)")
	pf.String("root", d.Store.Root, "Root directory of the local store")
	pf.String("bucket", d.Store.Bucket, "Bucket of the s3 or minio store")
	pf.String("prefix", d.Store.Prefix, "Key prefix inside the bucket")
	pf.String("region", d.Store.Region, "Region of the s3 or minio store")
	pf.String("endpoint", d.Store.Endpoint, "Endpoint of the minio store or an S3-compatible service")
	pf.String("ddb-table", d.Store.DDBTable, "DynamoDB table for atomic CURRENT updates (s3 only)")

	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newCurrentCmd())

	return cmd
}

// addClassifierFlags registers the flags shared by classify and evaluate.
func addClassifierFlags(cmd *cobra.Command, defaultOut string) {
	d := NewDefaultConfig()
	f := cmd.Flags()

	f.String("train", "train.csv", "Labeled reference corpus (label first)")
	f.String("out", defaultOut, "Blob to write predictions to")

	f.Int("k", d.K, "Number of neighbours")
	f.Int("p", d.Exponent, "Distance exponent")
	f.Int("bin-width", d.BinWidth, "Quantization bin width (1 disables quantization)")
	f.String("voter", d.Voter, "Vote rule (weighted, majority)")
	f.Int("workers", d.Workers, "Concurrent queries (0 = GOMAXPROCS)")
	f.Int("intra-query", d.IntraQuery, "Goroutines per query over the reference set (0 or 1 = off)")
	f.Bool("skip-unresolved", d.SkipUnresolved, "Record failing queries as unresolved instead of aborting")

	f.Int64("memory-limit", d.Limits.MemoryBytes, "Scratch memory limit in bytes (0 = unlimited)")
	f.Int64("max-workers", d.Limits.MaxWorkers, "Global cap on concurrent queries (0 = none)")
	f.Int64("io-limit", d.Limits.IOBytesPerSec, "Dataset IO limit in bytes per second (0 = unlimited)")

	f.Bool("submission-header", d.Output.SubmissionHeader, "Write an ImageId,Label header and 1-based ids")
	f.String("unresolved-token", d.Output.UnresolvedToken, "Text written for unresolved predictions")
	f.Bool("publish", d.Publish, "Write a run manifest and move CURRENT to it")
	f.String("codec", d.Codec, "Run manifest codec (go-json, json)")
}
