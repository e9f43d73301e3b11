// Package analysis looks for periodic behaviour in recorded metric series.
//
// A swarm that keeps collapsing and rebounding shows up as a clear peak in
// the spectrum of its mean speed:
//
//	_, series, _ := store.LoadSeries(id)
//	freq, _ := analysis.PowerSpectrum(series["mean_speed"], meta.Dt).Dominant()
package analysis
