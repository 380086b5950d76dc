// Package dataset loads the flat ESG input file into an in-memory Store
// and answers filter and aggregation queries over it.
//
// The loader accepts CSV and XLSX inputs with a header row. Rows that fail
// type conversion or validation are skipped with a warning rather than
// failing the whole load; an input that yields zero valid rows is an error.
package dataset
