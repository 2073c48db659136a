package column

// Stats counts the work a Reader has done since it was created.
type Stats struct {
	// Reads is the number of completed Read calls.
	Reads int64
	// VisitorReads is the number of reads that went through the row-by-row visitor.
	VisitorReads int64
	// SkippedRows is the number of rows passed over by Skip, including forward offsets.
	SkippedRows int64
	// SmallBatches is the number of eight-row blocks committed with every value inline.
	SmallBatches int64
	// GeneralBatches is the number of other eight-row blocks the batch extractor committed.
	GeneralBatches int64
	// FallbackBlocks is the number of blocks decoded by the scalar extractor.
	FallbackBlocks int64
}
