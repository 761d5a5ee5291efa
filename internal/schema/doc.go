// Package schema declares the tables a load run creates and fills.
//
// Every table is a Table record: its source file, its ordered columns with an
// explicit FieldKind, its primary key and its foreign keys. A Registry keeps
// the tables in dependency order, so that every referenced table precedes the
// tables referencing it. The same order drives creation and loading; its
// reverse drives clearing.
package schema
