// Package stats provides the descriptive statistics behind the calculator's
// list operators. Dispersion is reported for the population (divide by n),
// percentiles interpolate linearly between closest ranks, and mode ties go to
// the smallest value.
package stats
