package api

import (
	"github.com/FlorianTh2/homepageBackend/internal/project"
	"github.com/FlorianTh2/homepageBackend/internal/tag"
	"github.com/FlorianTh2/homepageBackend/pkg/contract"
	"github.com/FlorianTh2/homepageBackend/pkg/pagination"
)

func projectResponse(p project.Project) contract.ProjectResponse {
	tags := make([]contract.ProjectTagResponse, 0, len(p.Tags))
	for _, name := range p.Tags {
		tags = append(tags, contract.ProjectTagResponse{Name: name})
	}
	return contract.ProjectResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		UserID:    p.OwnerID,
		CreatedAt: p.CreatedAt.UTC(),
		Tags:      tags,
	}
}

func pagedProjects(page pagination.Page[project.Project]) contract.PagedResponse[contract.ProjectResponse] {
	data := make([]contract.ProjectResponse, 0, len(page.Items))
	for _, p := range page.Items {
		data = append(data, projectResponse(p))
	}

	resp := contract.PagedResponse[contract.ProjectResponse]{
		Data:         data,
		Total:        page.Total,
		NextPage:     page.NextLink,
		PreviousPage: page.PreviousLink,
	}
	if page.Paginated() {
		n, size := page.PageNumber, page.PageSize
		resp.PageNumber = &n
		resp.PageSize = &size
	}
	return resp
}

func tagResponse(t tag.Tag) contract.TagResponse {
	return contract.TagResponse{
		Name:      t.Name,
		CreatorID: t.CreatorID,
		CreatedOn: t.CreatedAt.UTC(),
	}
}
