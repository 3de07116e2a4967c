// Package collection implements the table engine behind the collection views.
//
//   - [Columns] : merges the built-in record fields with the user's custom
//     column definitions into one ordered column set
//   - [Table] : sorts, filters, and paginates records with type-aware
//     comparisons per column
//   - [Editor] : debounces inline cell edits and writes them back
//     last-write-wins, flushing anything pending on close
package collection
