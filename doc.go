// Package peakprophet matches predicted chemical compounds against observed
// chromatography peaks.
//
// Each record may carry up to three evidence channels: a centroided mass
// spectrum, a retention time, and an absorption maximum. Pairs are scored
// per channel (spectral cosine for spectra, Gaussian proximity for the
// scalars), combined with weights renormalized over the channels present on
// both sides, and the resulting score matrix is solved as a one-to-one
// assignment.
//
//	client, _ := peakprophet.New()
//	result, _ := client.Match(ctx,
//	    []peakprophet.Predicted{
//	        {Label: "CO", RetentionTime: peakprophet.Scalar(2.4)},
//	        {Label: "O=C(O)c1ccccc1O", RetentionTime: peakprophet.Scalar(3.6)},
//	    },
//	    []peakprophet.Observed{
//	        {PeakRef: "peak-1", RetentionTime: peakprophet.Scalar(3.65)},
//	        {PeakRef: "peak-2", RetentionTime: peakprophet.Scalar(2.45)},
//	    },
//	)
//	for _, m := range result.Matches {
//	    fmt.Println(m.Label, "->", m.PeakRef, m.Score)
//	}
//
// Connect a Redis or Valkey instance with WithRedis to keep completed runs
// inspectable after the fact.
package peakprophet
