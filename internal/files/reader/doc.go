// Package reader implements the row reader: it opens a table's source file,
// parses it as comma-separated text with a header row and converts every
// record into a tuple aligned with the table's declared columns.
//
// Conversion rules, per declared column:
//   - the raw field is trimmed of surrounding whitespace
//   - an empty result, or a column absent from the header, becomes nil
//   - Integer columns become int64, Decimal columns float64, Text columns string
//   - a non-empty value that fails numeric parsing aborts the read with ErrCoercion
//
// Header names match declared columns case-sensitively. Source columns
// without a declaration are ignored. Records keep their file order and blank
// lines are skipped. Quoting is lenient (see recordReader), so stray quotes
// never fail a read. A leading byte order mark is dropped; any other byte
// sequence that is not valid UTF-8 fails the read with ErrMalformedSource.
package reader
