/*
Package reader turns an XML document into batches of rows sharing one
schema.

Readers are created using New, with an event Source and a reader
Config, or using Open with an io.Reader holding the document. Each
call to Next pulls events from the source until a batch of
Config.BatchSize rows has been sealed, the source is exhausted or the
row limit is reached.

Row assembly

Every element at depth Config.DataLevel (the document element has
depth 1) starts a row. Elements below it become fields of the row:
maps when they have child elements, scalars otherwise. Elements
deeper than a non-zero Config.FlattenLevel are flattened, their text
becoming scalars directly under the row named by their own tag. The
row element's attributes are held in the reserved "attributes" map.

Setting Config.RowLevel places rows at that depth instead, and turns
a deeper Config.DataLevel into the flatten cutoff: with RowLevel 2 and
DataLevel 8, every element at depth 8 or deeper is flattened.

Batches

Each Batch carries a snapshot of the schema unified over its rows and
the rows themselves, padded with nulls to that schema's shape. Schema
conflicts (a field seen as a scalar in one row and a map in another)
never end the read; they are recovered by nulling the value and
reported on the batch. The schema starts afresh with each batch unless
Config.PinSchema is set.

Reader execution

Next may be called directly, or the Run function drives a Reader with
a Handler, calling its OnBatch method for each batch, OnError for a
failed read and finally OnClose.

Malformed input ends the read: rows sealed before the failure are
returned as a final batch and the error is returned by every later
call to Next. Once the row limit is reached, Next returns io.EOF
without pulling further events from the source.
*/
package reader
