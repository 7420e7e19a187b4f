package integrity

type VerifyOptions struct {
	// Prune rewrites damaged index files: corrupt files become empty,
	// duplicate and pending entries are dropped.
	Prune bool
}

type VerifyResult struct {
	Indexes int
	Valid   int
	Entries int
	Pruned  int
	Issues  []Issue
}

type Issue struct {
	IndexPath string
	Code      string
	Message   string
}
