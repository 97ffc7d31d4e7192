// Package report renders the visual reports and the console ranking.
//
// Two PNG reports are produced with gonum/plot:
//
//   - a heatmap of each cause's contribution to a region's accidents
//   - a 2×2 dashboard: hotspot score per region, a radar of the focus
//     region's accidents by cause, Over-Speeding vs Drunken Driving fatality
//     rates, and the share of regions per risk category
//
// Every renderer is a pipeline loader and treats the analysis as read-only.
package report
