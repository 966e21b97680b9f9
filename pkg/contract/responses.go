package contract

import "time"

// Response wraps a single resource or an unpaginated list.
type Response[T any] struct {
	Data T `json:"data"`
}

// PagedResponse is a page of a listing. PageNumber and PageSize are absent
// when the request was not paginated.
type PagedResponse[T any] struct {
	Data         []T    `json:"data"`
	Total        int    `json:"total"`
	PageNumber   *int   `json:"pageNumber,omitempty"`
	PageSize     *int   `json:"pageSize,omitempty"`
	NextPage     string `json:"nextPage,omitempty"`
	PreviousPage string `json:"previousPage,omitempty"`
}

// ProjectResponse is the public view of a project.
type ProjectResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	UserID    string               `json:"userId"`
	CreatedAt time.Time            `json:"createdAt"`
	Tags      []ProjectTagResponse `json:"tags"`
}

// ProjectTagResponse is a tag linked to a project.
type ProjectTagResponse struct {
	Name string `json:"name"`
}

// TagNames returns the names of the project's tags in order.
func (p ProjectResponse) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// TagResponse is the public view of a tag.
type TagResponse struct {
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	CreatedOn time.Time `json:"createdOn"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code           string         `json:"code"`
	Message        string         `json:"message"`
	Classification string         `json:"classification"`
	Context        map[string]any `json:"context,omitempty"`
}

// HealthResponse is the body of GET /health and GET /ready.
type HealthResponse struct {
	Status string `json:"status"`
}
