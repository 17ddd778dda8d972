// Package fetch acquires the upstream source artifacts: a rate table
// locked inside a PDF, a CPI archive zipped around a workbook, an
// indicator table rendered by scripts and an annual indicator API. Each
// source has its own acquirer; all of them persist raw, untyped records
// for the processing stage.
package fetch
