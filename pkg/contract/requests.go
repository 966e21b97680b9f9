package contract

// CreateProjectRequest is the body of POST /projects.
type CreateProjectRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// UpdateProjectRequest is the body of PUT /projects/:projectId. Omitting
// tags keeps the current set; an empty list removes every tag.
type UpdateProjectRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

// CreateTagRequest is the body of POST /tags.
type CreateTagRequest struct {
	TagName string `json:"tagName"`
}
