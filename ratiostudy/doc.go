/*
Package ratiostudy is the public surface for computing ratio study
statistics on paired assessed values and sale prices.

Every entry point is a pure function of a sample and an *Options value;
nil options select DefaultOptions:

	s, err := ratiostudy.FromPairs(assessed, salePrices)
	if err != nil {
		return err
	}
	cod, err := ratiostudy.COD(s, nil)
	fmt.Println(cod.Value, cod.Interval.Lower, cod.Interval.Upper, *cod.Met)

COD, PRD, KI and MKI carry bootstrap intervals seeded by Options.RandomSeed;
PRB carries an analytic Student-t interval. With TrimBeforeCompute set,
outliers are removed once per call using the configured policy, and each
Result records how many observations were excluded. DetectChasing always
works on the untrimmed sample.

Run computes everything for one sample. RunBatch fans many samples out
across goroutines:

	results, err := ratiostudy.RunBatch(ctx, jobs, opts, 8)

Errors are *studyerr.Error values; match them with errors.Is against the
studyerr sentinels.
*/
package ratiostudy
