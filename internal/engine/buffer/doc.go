// Package buffer provides the text storage that the indentation engine reads
// from and writes to.
//
// The package provides:
//
//   - Location and Range: half-open byte ranges over a flat text buffer
//   - Mutation: an edit event (affected range plus replacement text)
//   - Storage: the capability interface consumed by filters and the indenter
//   - Buffer: a thread-safe, line-indexed Storage implementation
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("func main() {\n")
//
//	// Apply an edit event
//	err := buf.ApplyMutation(buffer.NewInsert(buf.Len(), "\t}"))
//
//	// Query the line containing an offset
//	r, ok := buf.LineRange(15)  // [14:16)
//
//	// Leading whitespace of that line
//	ws, ok := buf.LeadingWhitespaceRange(15)  // [14:15)
//
// Line Terminators:
//
// Lines are split on "\n", "\r\n" and "\r". Line ranges never include the
// terminator. Text is stored exactly as inserted so that mutation offsets
// reported by callers stay valid after the edit is applied.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. The package-level
// helpers built on Storage (TrimmedText, IsBlank, LineText) issue several
// calls and are not atomic with respect to concurrent writers.
package buffer
