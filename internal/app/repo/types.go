package repo

type SyncResult struct {
	Path    string
	Cloned  bool
	Updated bool
	Head    string
}
