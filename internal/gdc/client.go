package gdc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/histolab/gdc-slide-downloader/internal/gdc/dto"
	xhttp "github.com/histolab/gdc-slide-downloader/internal/http"
	"github.com/histolab/gdc-slide-downloader/internal/model"
)

// manifestFields is the field list requested for every file hit. It must
// cover everything FileRecord carries.
const manifestFields = "file_id,file_name,md5sum,case_id,file_size,data_format,experimental_strategy,cases.submitter_id"

// CatalogError wraps a failed catalog query. Per-project failures carry
// the project identifier so callers can skip the project and continue.
type CatalogError struct {
	Op        string
	ProjectID string
	Err       error
}

func (e *CatalogError) Error() string {
	if e.ProjectID != "" {
		return fmt.Sprintf("gdc: %s for %s: %v", e.Op, e.ProjectID, e.Err)
	}
	return fmt.Sprintf("gdc: %s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Manifest is the full file listing for one project.
type Manifest struct {
	// Records are the file hits converted to domain records,
	// in catalog response order.
	Records []model.FileRecord

	// Total is the catalog's total hit count for the query. When Total
	// exceeds len(Records) the single-page query truncated the result.
	Total int
}

// Truncated reports whether the manifest query hit the page-size cap.
func (m Manifest) Truncated() bool {
	return m.Total > len(m.Records)
}

// Client issues filtered queries against the GDC catalog.
//
// Both query methods issue a single bulk request with a page size large
// enough to capture all results in one round trip. GetManifest reports
// truncation via Manifest.Truncated rather than paginating further.
type Client struct {
	endpoint         string
	http             *xhttp.Client
	projectsPageSize int
	filesPageSize    int
}

// NewClient creates a catalog client for the given API endpoint.
func NewClient(endpoint string, httpClient *xhttp.Client, projectsPageSize, filesPageSize int) *Client {
	return &Client{
		endpoint:         strings.TrimRight(endpoint, "/"),
		http:             httpClient,
		projectsPageSize: projectsPageSize,
		filesPageSize:    filesPageSize,
	}
}

// ListProjects returns the identifiers of all TCGA projects that carry
// slide-image data, in catalog response order.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	filter := And(
		Eq("program.name", "TCGA"),
		In("data_categories.data_type", []string{"Slide Image"}),
	)
	query, err := c.buildQuery(filter, "project_id", c.projectsPageSize)
	if err != nil {
		return nil, &CatalogError{Op: "list projects", Err: err}
	}

	var resp dto.ProjectsResponse
	if err := c.http.GetJSON(ctx, c.endpoint+"/projects", query, &resp); err != nil {
		return nil, &CatalogError{Op: "list projects", Err: err}
	}

	projects := make([]string, 0, len(resp.Data.Hits))
	for _, hit := range resp.Data.Hits {
		projects = append(projects, hit.ProjectID)
	}
	return projects, nil
}

// GetManifest returns the biospecimen slide-image file listing for one
// project.
func (c *Client) GetManifest(ctx context.Context, projectID string) (Manifest, error) {
	filter := And(
		Eq("cases.project.project_id", projectID),
		Eq("data_category", "Biospecimen"),
		Eq("data_type", "Slide Image"),
	)
	query, err := c.buildQuery(filter, manifestFields, c.filesPageSize)
	if err != nil {
		return Manifest{}, &CatalogError{Op: "fetch manifest", ProjectID: projectID, Err: err}
	}

	var resp dto.FilesResponse
	if err := c.http.GetJSON(ctx, c.endpoint+"/files", query, &resp); err != nil {
		return Manifest{}, &CatalogError{Op: "fetch manifest", ProjectID: projectID, Err: err}
	}

	records := make([]model.FileRecord, 0, len(resp.Data.Hits))
	for i := range resp.Data.Hits {
		records = append(records, resp.Data.Hits[i].ToFileRecord())
	}
	return Manifest{Records: records, Total: resp.Data.Pagination.Total}, nil
}

// DataURL returns the remote data endpoint for a file identifier.
func (c *Client) DataURL(fileID string) string {
	return c.endpoint + "/data/" + fileID
}

func (c *Client) buildQuery(filter Filter, fields string, size int) (url.Values, error) {
	filterJSON, err := filter.JSON()
	if err != nil {
		return nil, err
	}
	return url.Values{
		"filters": []string{filterJSON},
		"fields":  []string{fields},
		"format":  []string{"json"},
		"size":    []string{strconv.Itoa(size)},
	}, nil
}
