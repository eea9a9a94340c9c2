package api

// PagingMeta returns a paging object for a list of resources
type PagingMeta struct {
	Page  int
	Size  int
	Total int
}
