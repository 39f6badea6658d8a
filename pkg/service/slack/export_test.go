package slack

// Export internal functions and types for testing
var (
	// TruncateToMaxBytes is exported for testing UTF-8 truncation
	TruncateToMaxBytes = truncateToMaxBytes

	BuildRiskBlocks = buildRiskBlocks
)
