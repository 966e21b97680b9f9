// Package contract defines the routes and JSON documents of the homepage
// API, version 1. The server and the Go client share these types.
package contract

import (
	"net/url"
	"strings"
)

// Route parameters.
const (
	ParamProjectID = "projectId"
	ParamTagName   = "tagName"
)

// Query parameters of the project listing.
const (
	QueryUserID = "userId"
	QueryTag    = "tag"
)

// Routes, relative to the server root.
const (
	Root    = "/api/v1"
	Project = Root + "/projects/:" + ParamProjectID
	Tag     = Root + "/tags/:" + ParamTagName

	Projects = Root + "/projects"
	Tags     = Root + "/tags"

	Health  = "/health"
	Ready   = "/ready"
	Metrics = "/metrics"
)

// ProjectPath returns the path of one project.
func ProjectPath(id string) string {
	return strings.Replace(Project, ":"+ParamProjectID, url.PathEscape(id), 1)
}

// TagPath returns the path of one tag.
func TagPath(name string) string {
	return strings.Replace(Tag, ":"+ParamTagName, url.PathEscape(name), 1)
}
