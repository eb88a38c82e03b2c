/*
Package xmlrows is a set of libraries reading irregular XML documents
as rows of a unified, nullable schema.

Repeating elements at a configured depth become rows; their child
elements become nested map and scalar fields, and the field sets of
all rows are unified into one ordered schema with every row padded to
its shape. Deep subtrees can be flattened into the row, columns can
be projected and the number of rows limited.

See the reader sub-directory for Reader objects and Handler
implementations, and cmd/xmlrows for a command line tool writing rows
as JSON lines.
*/
package xmlrows
