package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/knn/dataset"
	"github.com/hupe1980/knn/eval"
)

const evaluateLongDesc string = `Classify a labeled query corpus and score the predictions.

Both corpora carry the label in their first column. The report shows the
accuracy, the number of unresolved queries and the confusion matrix (rows are
true labels, columns predicted labels).

Example:
  knn evaluate --train train.csv --test holdout.csv
  knn evaluate --train train.csv --test holdout.csv --k 5 --p 2 --bin-width 1`

const evaluateShortDesc string = "Score predictions against a labeled corpus"

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: evaluateShortDesc,
		Long:  evaluateLongDesc,
		Args:  cobra.NoArgs,
		RunE:  runEvaluate,
	}

	addClassifierFlags(cmd, "")
	cmd.Flags().String("test", "holdout.csv", "Labeled query corpus")

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
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

	holdout, err := dataset.Load(ctx, r.store, test, true, r.loadOptions()...)
	if err != nil {
		return err
	}

	res, err := clf.ClassifyBatch(ctx, holdout.Vectors)
	if err != nil {
		return err
	}

	report, err := eval.Evaluate(holdout.Labels, res.Predictions)
	if err != nil {
		return err
	}

	if out != "" {
		if err := r.writePredictions(ctx, out, res.Predictions); err != nil {
			return err
		}
	}

	m := r.manifest(train, test, out, clf, res)
	acc := report.Accuracy()
	m.Accuracy = &acc

	manifest, err := r.publish(ctx, m)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprint(w, report.String())
	if manifest != "" {
		fmt.Fprintf(w, "manifest: %s\n", manifest)
	}

	r.logStats(ctx, started)
	return nil
}
