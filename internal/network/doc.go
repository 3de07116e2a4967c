// Package network derives a musician collaboration graph from a record collection.
//
//   - [BuildGraph] : parses musician credits off each record and produces nodes
//     (artists and session musicians), weighted links, and filter vocabularies
//   - [Apply] : filters a graph by role, genre, style, and custom column values,
//     dropping nodes left without links
//   - [Neighborhood] : computes the highlight set (a node, its neighbors, and
//     incident links) used for click-based focus
//   - [AnalyzeMusicians], [SessionMusicians], [Collaboration] : aggregate
//     statistics over the credit list
package network
