// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package chart computes vote percentages and renders them as a bar chart.

	labels, pcts := chart.FromResults(results)
	png, err := chart.BarPNG("Live Results for: "+q.QuestionText, labels, pcts)

Bars use gonum.org/v1/plot. The y-axis is fixed to 0-100 and each bar carries
its percentage with one decimal place ("75.0%").
*/
package chart
