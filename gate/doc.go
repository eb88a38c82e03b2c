// Package gate holds the projection and limit hints supplied by the
// consuming query layer.
//
// A Projection lists the column paths the consumer wants. Row assembly
// consults it to skip materializing fields nobody asked for; it never
// changes which rows are produced. A Limit caps the number of rows;
// once reached the reader stops consuming input.
package gate
