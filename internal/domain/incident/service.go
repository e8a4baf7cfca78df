package incident

import (
	"context"
	"io"
)

type IncidentService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id int64) (Response, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id int64) error
	Respond(ctx context.Context, req RespondRequest) (Response, error)
	List(ctx context.Context, query ListQuery) ([]Response, error)
	ListPending(ctx context.Context, query ListQuery) ([]Response, error)

	AttachDocument(ctx context.Context, req AttachDocumentRequest) (Response, error)
	DownloadDocument(ctx context.Context, id int64) (Document, error)
}

// Document is a stored medical justification ready to stream.
type Document struct {
	Filename    string
	ContentType string
	Content     io.ReadCloser
}
