package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/knn/dataset"
)

const classifyLongDesc string = `Classify every row of an unlabeled query corpus.

The reference corpus (--train) has the label in its first column; the query
corpus (--test) has features only. A header row is detected and skipped.
Predictions are written one per line in query order.

Example:
  knn classify --train train.csv --test test.csv --out Predictions.csv
  knn classify --store s3 --bucket digits --train train.csv.zst --test test.csv --submission-header --out submission.csv`

const classifyShortDesc string = "Classify a query corpus"

func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: classifyShortDesc,
		Long:  classifyLongDesc,
		Args:  cobra.NoArgs,
		RunE:  runClassify,
	}

	addClassifierFlags(cmd, "Predictions.csv")
	cmd.Flags().String("test", "test.csv", "Unlabeled query corpus")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	started := time.Now()
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	train, _ := cmd.Flags().GetString("train")
	test, _ := cmd.Flags().GetString("test")
	out, _ := cmd.Flags().GetString("out")

	r, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}

	clf, err := r.classifier(ctx, train)
	if err != nil {
		return err
	}

	queries, err := dataset.LoadQueries(ctx, r.store, test, r.loadOptions()...)
	if err != nil {
		return err
	}

	res, err := clf.ClassifyBatch(ctx, queries)
	if err != nil {
		return err
	}

	if err := r.writePredictions(ctx, out, res.Predictions); err != nil {
		return err
	}

	manifest, err := r.publish(ctx, r.manifest(train, test, out, clf, res))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "classified %d queries against %d samples in %s\n", len(res.Predictions), clf.Len(), res.Elapsed.Round(time.Millisecond))
	if n := len(res.Predictions) - res.Resolved(); n > 0 {
		fmt.Fprintf(w, "unresolved: %d %v\n", n, res.UnresolvedIndices())
	}
	fmt.Fprintf(w, "predictions: %s\n", out)
	if manifest != "" {
		fmt.Fprintf(w, "manifest: %s\n", manifest)
	}

	r.logStats(ctx, started)
	return nil
}
