package dto

// Pagination is the pagination block every GDC list response carries.
//
// Count is the number of hits in this response; Total is the number of
// hits matching the query. Total > Count means the page size truncated
// the result set.
type Pagination struct {
	Count int `json:"count"`
	Total int `json:"total"`
	Size  int `json:"size"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// JSONProject represents one project hit from the GDC /projects endpoint.
type JSONProject struct {
	ProjectID string `json:"project_id"`
}

// ProjectsResponse is the envelope of a /projects query.
type ProjectsResponse struct {
	Data struct {
		Hits       []JSONProject `json:"hits"`
		Pagination Pagination    `json:"pagination"`
	} `json:"data"`
}

// FilesResponse is the envelope of a /files query.
type FilesResponse struct {
	Data struct {
		Hits       []JSONFile `json:"hits"`
		Pagination Pagination `json:"pagination"`
	} `json:"data"`
}
