// Package calculator turns a revenue/expense snapshot and a settings version into a
// distribution breakdown and per-beneficiary allocations.
//
// Deductions run as an ordered pipeline over a running balance: maintenance first, then
// the nazer's share, then waqif charity, then reserve. What remains is distributable.
// Every function here is pure; nothing is read from or written to storage.
package calculator
